package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/bradykim7/recipebot/pkg/config"
)

const (
	appName        = "recipebot"
	connectTimeout = 10 * time.Second
)

// MongoDB는 요리책 저장소가 쓰는 데이터베이스 핸들입니다
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

// NewMongoDB dials cfg.MongoDBURI and fails fast when the primary does not
// answer within connectTimeout.
func NewMongoDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*MongoDB, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoDBURI).
		SetAppName(appName).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	// 연결 직후 primary 응답 확인
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	m := &MongoDB{
		client: client,
		db:     client.Database(cfg.MongoDBDatabase),
		log:    log.Named("mongodb"),
	}
	m.log.Info("Cookbook database ready", zap.String("database", cfg.MongoDBDatabase))
	return m, nil
}

// Disconnect는 연결을 닫습니다
func (m *MongoDB) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	m.log.Info("Disconnecting cookbook database")
	return m.client.Disconnect(ctx)
}

// Collection returns a handle on the named collection
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}
