package routes

import (
	"Awardly/controllers"
	"Awardly/middleware"
	"Awardly/services/blob"
	"Awardly/services/ceremony"
	"Awardly/services/identity"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, svc *ceremony.Service, provider identity.Provider) {
	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	// Public routes: anyone holding a lobby id or share code
	public := api.Group("/")
	public.Use(middleware.OptionalAuth(provider))
	{
		public.GET("/join/:share_code", controllers.GetLobbyByShareCode(svc))

		public.POST("/join/:share_code", controllers.RememberVoter(svc))

		public.GET("/lobbies/:lobby_id", controllers.GetLobby(svc))

		public.GET("/lobbies/:lobby_id/friends", controllers.ListFriends(svc))

		public.GET("/lobbies/:lobby_id/awards", controllers.ListAwards(svc))

		public.POST("/lobbies/:lobby_id/votes", controllers.CastVote(svc))

		public.GET("/lobbies/:lobby_id/results", controllers.GetVoteResults(svc))

		public.GET("/lobbies/:lobby_id/progress", controllers.GetVotingProgress(svc))

		public.GET("/lobbies/:lobby_id/voters", controllers.GetVotersWhoVoted(svc))

		public.GET("/lobbies/:lobby_id/presentation", controllers.PresentationView(svc))

		public.POST("/lobbies/:lobby_id/presentation/review", controllers.MoveReviewCursor(svc))

		// the service decides whether anonymous participants may add themselves
		public.POST("/public/lobbies/:lobby_id/friends", controllers.AddFriend(svc))

		public.POST("/public/uploads", controllers.GenerateUploadURL(svc))
	}

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired(provider))
	{
		authentication.POST("/logout", middleware.Logout)

		authentication.POST("/lobbies", controllers.CreateLobby(svc))

		authentication.GET("/lobbies", controllers.GetUserLobbies(svc))

		authentication.DELETE("/lobbies/:lobby_id", controllers.DeleteLobby(svc))

		authentication.POST("/lobbies/:lobby_id/voting/toggle", controllers.ToggleVoting(svc))

		authentication.DELETE("/lobbies/:lobby_id/votes", controllers.ResetVotes(svc))

		authentication.POST("/lobbies/:lobby_id/presentation/start", controllers.StartPresentation(svc))

		authentication.POST("/lobbies/:lobby_id/presentation/slide", controllers.AdvanceSlide(svc))

		authentication.POST("/lobbies/:lobby_id/friends", controllers.AddFriend(svc))

		authentication.DELETE("/friends/:friend_id", controllers.RemoveFriend(svc))

		authentication.PUT("/friends/:friend_id/image", controllers.AttachFriendImage(svc))

		authentication.POST("/uploads", controllers.GenerateUploadURL(svc))

		authentication.POST("/lobbies/:lobby_id/awards", controllers.AddAward(svc))

		authentication.POST("/lobbies/:lobby_id/awards/bulk", controllers.AddAwardsBulk(svc))

		authentication.DELETE("/awards/:award_id", controllers.RemoveAward(svc))

		authentication.PATCH("/awards/:award_id", controllers.UpdateAward(svc))

		authentication.PUT("/awards/:award_id/nominees", controllers.SetAwardNominees(svc))
	}
}

// SetupBlobRoutes serves the upload and image URLs of the in-memory blob store
func SetupBlobRoutes(router *gin.Engine, store *blob.MemoryStore) {
	blobs := router.Group("/blobs")
	{
		blobs.PUT("/upload/friends/:image_id", controllers.PutBlob(store))

		blobs.GET("/friends/:image_id", controllers.GetBlob(store))
	}
}
