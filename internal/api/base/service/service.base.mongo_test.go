package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToUpdateDataPassthrough(t *testing.T) {
	original := &UpdateData{Set: map[string]interface{}{"name": "x"}}

	update, err := ToUpdateData(original)
	assert.NoError(t, err)
	assert.Same(t, original, update, "Truyền *UpdateData phải trả về đúng con trỏ đó")
}

func TestToUpdateDataFromPlainMap(t *testing.T) {
	update, err := ToUpdateData(map[string]interface{}{"name": "x", "status": "active"})
	assert.NoError(t, err)
	assert.Equal(t, "x", update.Set["name"], "Map thường phải được wrap trong $set")
	assert.Equal(t, "active", update.Set["status"])
	assert.Nil(t, update.Push)
	assert.Nil(t, update.Inc)
}

func TestToUpdateDataFromOperatorMap(t *testing.T) {
	update, err := ToUpdateData(map[string]interface{}{
		"$set":         map[string]interface{}{"lastMessagePreview": "hi"},
		"$push":        map[string]interface{}{"messages": "msg"},
		"$inc":         map[string]interface{}{"unreadCount": 1},
		"$setOnInsert": map[string]interface{}{"createdAt": int64(1)},
	})
	assert.NoError(t, err)
	assert.Equal(t, "hi", update.Set["lastMessagePreview"])
	assert.Equal(t, "msg", update.Push["messages"])
	// Vòng bson roundtrip đổi kiểu số (int -> int32) — so sánh theo giá trị
	assert.EqualValues(t, 1, update.Inc["unreadCount"])
	assert.EqualValues(t, 1, update.SetOnInsert["createdAt"])
}

// Tài liệu update gửi xuống driver phải chỉ chứa các operator có dữ liệu —
// một $setOnInsert rỗng trong lệnh không-upsert là lỗi phía MongoDB.
func TestUpdateDataMarshalOmitsEmptyOperators(t *testing.T) {
	update := &UpdateData{
		Push: map[string]interface{}{"messages": "msg"},
		Set:  map[string]interface{}{"lastMessageAt": int64(5)},
	}

	raw, err := bson.Marshal(update)
	assert.NoError(t, err)

	var doc bson.M
	assert.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Contains(t, doc, "$push")
	assert.Contains(t, doc, "$set")
	assert.NotContains(t, doc, "$setOnInsert", "Operator rỗng không được xuất hiện trong update document")
	assert.NotContains(t, doc, "$inc")
	assert.NotContains(t, doc, "$unset")
}
