package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/market-meet/api-go/controllers"
	"github.com/market-meet/api-go/middleware"
	"github.com/market-meet/api-go/realtime"
)

// SetupRoutes wires the whole HTTP surface. Every /api route goes through
// the store availability check; write routes additionally require a token.
func SetupRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub) {
	statusController := controllers.NewStatusController(db)
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db, hub)
	commentController := controllers.NewCommentController(db, hub)
	interactionController := controllers.NewInteractionController(db, hub)

	api := r.Group("/api")

	// Status stays outside the availability gate so it can report a
	// disconnected store instead of 503ing.
	api.GET("/status", statusController.GetStatus)

	api.Use(middleware.RequireDB(db))

	api.GET("/categories", postController.GetCategories)

	users := api.Group("/users")
	{
		users.POST("/create", authController.Register)
		users.POST("/login", authController.Login)
		users.POST("/refresh", authController.RefreshToken)
		users.POST("/logout", authController.Logout)

		users.GET("/profile", middleware.AuthMiddleware(), authController.GetProfile)
		users.PUT("/update-name", middleware.AuthMiddleware(), authController.UpdateUsername)

		users.GET("/:userId", userController.GetUser)
		users.GET("/:userId/followers", interactionController.GetUserFollowers)
		users.GET("/:userId/following", interactionController.GetUserFollowing)
		users.POST("/:userId/follow", middleware.AuthMiddleware(), interactionController.FollowUser)
	}

	posts := api.Group("/posts")
	{
		// public reads
		posts.GET("/:postId/like-status", interactionController.GetLikeStatus)
		posts.GET("/:postId/likes", interactionController.GetPostLikes)
		posts.GET("/:postId/stats", postController.GetPostStats)
		posts.GET("/:postId/comments", commentController.GetComments)

		authed := posts.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.POST("/create", postController.CreatePost)
			authed.GET("/timeline", postController.GetTimeline)
			authed.GET("/user/:userId", postController.GetUserPosts)
			authed.GET("/category/:category", postController.GetCategoryPosts)
			authed.GET("/rating/:rating", postController.GetRatingPosts)

			authed.PUT("/:postId", postController.UpdatePost)
			authed.DELETE("/:postId", postController.DeletePost)
			authed.POST("/:postId/like", interactionController.LikePost)
			authed.POST("/:postId/comments", commentController.CreateComment)
			authed.DELETE("/:postId/comments/:commentId", commentController.DeleteComment)
		}
	}

	SetupUploadRoutes(api, db)
}
