// Package middleware chứa các middleware dùng chung cho các route.
package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	authmodels "fusion_talk/internal/api/auth/models"
	basehdl "fusion_talk/internal/api/base/handler"
	basesvc "fusion_talk/internal/api/base/service"
	"fusion_talk/internal/common"
	"fusion_talk/internal/global"
	"fusion_talk/internal/logger"
)

// AuthMiddleware middleware xác thực cho Fiber.
// Token của người dùng được lưu trên document user (field "token" là token mới nhất,
// array "tokens" chứa token theo từng thiết bị) — xác thực bằng cách tìm user có token.
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("[AUTH] Thiếu Authorization header")
			basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			basehdl.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}
		token := parts[1]

		userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
		if !exist {
			basehdl.HandleResponse(c, nil, common.ErrConnection)
			return nil
		}
		userService := basesvc.NewBaseServiceMongo[authmodels.User](userCollection)

		// Ưu tiên query field "token" (token mới nhất) trước vì nó được cập nhật mỗi lần login.
		// Nếu không tìm thấy, query trong array "tokens" (tokens theo hwid).
		user, err := userService.FindOne(context.Background(), bson.M{"token": token}, nil)
		if err != nil {
			user, err = userService.FindOne(context.Background(), bson.M{"tokens.jwtToken": token}, nil)
		}
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path": c.Path(),
			}).Warn("[AUTH] Token không tồn tại trong database")
			basehdl.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}

		// Kiểm tra user có bị block không
		if user.IsBlock {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeAuthCredentials,
				"Tài khoản đã bị khóa: "+user.BlockNote,
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", user)

		return c.Next()
	}
}
