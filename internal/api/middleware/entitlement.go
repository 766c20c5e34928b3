package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/movie_go_server/internal/pkg/response"
	"github.com/qs3c/movie_go_server/internal/service"
)

// StreamCheck 播放资格预检中间件。只读判定，真正的名额占用
// 在开始播放接口的事务里完成
func StreamCheck(subscriptionService *service.SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		canStream, err := subscriptionService.CanStream(userID)
		if err != nil {
			response.ServerError(c, "播放资格检查失败")
			c.Abort()
			return
		}

		if !canStream {
			response.StreamLimitError(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
