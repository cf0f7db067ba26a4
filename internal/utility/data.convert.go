package utility

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contains kiểm tra một phần tử có trong slice hay không
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// String2ObjectID chuyển đổi string thành ObjectID.
// Trả về zero ObjectID nếu chuỗi không hợp lệ (caller đã validate bằng IsValidObjectID trước).
func String2ObjectID(s string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// P2Int64 chuyển đổi string thành int64, trả về 0 nếu không parse được
func P2Int64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
