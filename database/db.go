package database

import (
	"context"
	"time"

	"vehicleservice/config"
	"vehicleservice/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

const defaultDatabase = "vehicleservice"

// MongoClient is the global MongoDB client instance.
var MongoClient *mongo.Client

// clientOptions enables majority writes and retryable writes; the assignment
// store relies on both for its workload transactions.
func clientOptions(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetAppName(defaultDatabase).
		SetRegistry(NewRegistry()).
		SetWriteConcern(writeconcern.Majority()).
		SetRetryWrites(true).
		SetServerSelectionTimeout(5 * time.Second)
}

// InitDB connects and pings MongoDB, exiting the process on failure.
func InitDB() {
	logger := utils.ComponentLogger("mongo")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(config.AppConfig.DatabaseURL))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Fatal("failed to ping MongoDB primary", zap.Error(err))
	}
	MongoClient = client
	logger.Info("connected to MongoDB", zap.String("database", databaseName()))
}

func databaseName() string {
	if name := config.AppConfig.DatabaseName; name != "" {
		return name
	}
	return defaultDatabase
}

// DB returns the application database.
func DB() *mongo.Database {
	return MongoClient.Database(databaseName())
}

// Close disconnects the client if one was opened.
func Close(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}
