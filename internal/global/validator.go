package global

import (
	"github.com/go-playground/validator/v10"
)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	// Đăng ký các custom validator cho domain chat
	_ = Validate.RegisterValidation("platform", validatePlatform)
	_ = Validate.RegisterValidation("content_type", validateContentType)
}

// validatePlatform kiểm tra giá trị platform hợp lệ (line | messenger)
func validatePlatform(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "line", "messenger":
		return true
	}
	return false
}

// validateContentType kiểm tra loại nội dung tin nhắn (text | image, rỗng = text)
func validateContentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "text", "image":
		return true
	}
	return false
}
