package global

import (
	"fusion_talk/config"
	"fusion_talk/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Users         string // Tên collection cho người dùng (chủ doanh nghiệp)
	Channels      string // Tên collection cho các kênh kết nối (LINE OA, Facebook Page)
	Conversations string // Tên collection cho hội thoại (aggregate: profile + unread + messages)
	WebhookLogs   string // Tên collection cho log webhook nhận từ các nền tảng
}

// Các biến toàn cục
var Validate *validator.Validate               // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration         // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName    // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
