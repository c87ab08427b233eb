package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/mongo/mongodriver"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AHidalgo342/COMP2537-Assignment-1/internal/auth"
	"github.com/AHidalgo342/COMP2537-Assignment-1/internal/config"
)

const (
	// セッションレコードの置き場所（固定）
	sessionDatabase   = "sessions"
	sessionCollection = "sessions"

	connectTimeout = 10 * time.Second
)

// connectMongo は設定から組み立てた接続文字列でMongoDBクライアントを作成します。
func connectMongo(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI()))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

func disconnectMongo(client *mongo.Client, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Printf("mongo disconnect failed: %v", err)
	}
}

// newSessionStore はMongoDB上のセッションストアを作成します。
// クッキー署名鍵は NODE_SESSION_SECRET、レコード暗号化鍵は MONGODB_SESSION_SECRET に対応します。
// 期限切れレコードの掃除はストアが張るTTLインデックスに任せます（能動的なスイープはなし）。
func newSessionStore(cfg *config.Config, client *mongo.Client) sessions.Store {
	coll := client.Database(sessionDatabase).Collection(sessionCollection)

	keyPairs := [][]byte{[]byte(cfg.SessionSecret)}
	if cfg.MongoSessionSecret != "" {
		keyPairs = append(keyPairs, []byte(cfg.MongoSessionSecret))
	}

	store := mongodriver.NewStore(coll, auth.SessionMaxAgeSeconds(cfg), true, keyPairs...)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   auth.SessionMaxAgeSeconds(cfg),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})
	return store
}
