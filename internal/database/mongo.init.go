package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fusion_talk/internal/global"
	"fusion_talk/internal/logger"
)

// EnsureDatabaseAndCollections đảm bảo database và các collection khai báo trong
// global.MongoDB_ColNames tồn tại trước khi đăng ký registry.
func EnsureDatabaseAndCollections(client *mongo.Client) error {
	dbName := global.ServerConfig.MongoDB_DBName

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(dbName)

	collections := []string{}
	v := reflect.ValueOf(global.MongoDB_ColNames)
	for i := 0; i < v.NumField(); i++ {
		collections = append(collections, v.Field(i).String())
	}

	collList, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	existing := map[string]bool{}
	for _, name := range collList {
		existing[name] = true
	}

	for _, collectionName := range collections {
		if existing[collectionName] {
			continue
		}
		logger.GetAppLogger().Infof("Collection %s chưa tồn tại, tạo mới.", collectionName)
		if err := db.CreateCollection(ctx, collectionName); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", collectionName, err)
		}
	}

	logger.GetAppLogger().Infof("Database and collections are ensured in database: %s", dbName)
	return nil
}

// CreateIndexes tạo index cho collection từ tag `index` trên các field của model.
// Hỗ trợ: index:"unique" (thêm ",sparse" nếu cần), index:"single" (thêm "order:-1"
// cho giảm dần), index:"text".
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}

		bsonField := strings.Split(field.Tag.Get("bson"), ",")[0]
		if bsonField == "" || bsonField == "-" {
			continue
		}

		for _, part := range strings.Split(tag, ";") {
			configs := map[string]string{}
			for _, kv := range strings.Split(part, ",") {
				pair := strings.SplitN(kv, ":", 2)
				if len(pair) == 2 {
					configs[pair[0]] = pair[1]
				} else {
					configs[pair[0]] = ""
				}
			}

			var indexModel mongo.IndexModel
			var indexName string
			switch {
			case hasKey(configs, "unique"):
				indexName = bsonField + "_unique"
				opts := options.Index().SetName(indexName).SetUnique(true)
				if hasKey(configs, "sparse") {
					opts = opts.SetSparse(true)
				}
				indexModel = mongo.IndexModel{Keys: bson.D{{Key: bsonField, Value: 1}}, Options: opts}
			case hasKey(configs, "single"):
				order := 1
				if configs["order"] == "-1" {
					order = -1
				}
				indexName = bsonField + "_single"
				indexModel = mongo.IndexModel{Keys: bson.D{{Key: bsonField, Value: order}}, Options: options.Index().SetName(indexName)}
			case hasKey(configs, "text"):
				indexName = bsonField + "_text"
				indexModel = mongo.IndexModel{Keys: bson.D{{Key: bsonField, Value: "text"}}, Options: options.Index().SetName(indexName)}
			default:
				continue
			}

			if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil && !isIndexExistsError(err) {
				return fmt.Errorf("không thể tạo index %s trên %s: %w", indexName, collection.Name(), err)
			}
		}
	}

	return nil
}

func hasKey(configs map[string]string, key string) bool {
	_, ok := configs[key]
	return ok
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
