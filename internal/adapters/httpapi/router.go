package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"

	"socialcore/internal/adapters/httpapi/middleware"
	"socialcore/internal/core/account"
	"socialcore/internal/core/micropost"
)

// AccountUseCase is the inbound port used by the account controller.
type AccountUseCase interface {
	CreateAccount(ctx context.Context, req account.CreateRequest) (*account.Account, error)
	UpdateAccount(ctx context.Context, id string, req account.UpdateRequest) (*account.Account, error)
	DestroyAccount(ctx context.Context, id string) error
	Authenticate(ctx context.Context, email, password string) (*account.Account, error)
	AuthenticateWithSalt(ctx context.Context, id, salt string) (*account.Account, error)
	FindByID(ctx context.Context, id string) (*account.Account, error)
}

type RelationshipUseCase interface {
	Follow(ctx context.Context, actorID, targetID string) error
	Unfollow(ctx context.Context, actorID, targetID string) error
	IsFollowing(ctx context.Context, actorID, targetID string) (bool, error)
	ListFollowing(ctx context.Context, actorID string) ([]*account.Account, error)
	ListFollowers(ctx context.Context, actorID string) ([]*account.Account, error)
}

type MicropostUseCase interface {
	CreateMicropost(ctx context.Context, authorID, content string) (*micropost.Micropost, error)
	FeedPage(ctx context.Context, accountID string, start, limit int64) ([]*micropost.Micropost, error)
}

// SetupRoutes only wires routes; use cases are injected.
func SetupRoutes(
	sessions *middleware.Sessions,
	accountUC AccountUseCase,
	relationshipUC RelationshipUseCase,
	micropostUC MicropostUseCase,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	ac := NewAccountController(accountUC, sessions)
	rc := NewRelationshipController(relationshipUC)
	mc := NewMicropostController(micropostUC)
	auth := sessions.Authenticate(accountUC)

	r.POST("/register", ac.Register)
	r.POST("/login", ac.Login)
	r.POST("/logout", ac.Logout)

	r.GET("/users/:id", ac.Show)
	r.GET("/users/:id/following", rc.Following)
	r.GET("/users/:id/followers", rc.Followers)

	me := r.Group("/", auth)
	me.GET("/me", ac.Me)
	me.PUT("/me", ac.Update)
	me.DELETE("/me", ac.Destroy)

	me.POST("/follow", rc.Follow)
	me.POST("/unfollow", rc.Unfollow)
	me.GET("/following/:id", rc.IsFollowing)

	me.POST("/microposts", mc.Create)
	me.GET("/feed", mc.Feed)
	return r
}
