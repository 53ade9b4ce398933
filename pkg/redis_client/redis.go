package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/liveboard/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionPassword = ""
const defaultDatabase = 0

// Connect sets up the redis client and queue connection. Redis is optional for the board,
// so when LIVEBOARD_REDIS_ADDRESS is not set nothing is connected and Enabled reports false.
func Connect() error {
	env := util.GetEnvironmentVariables()

	address := env["LIVEBOARD_REDIS_ADDRESS"]
	if address == "" {
		log.Info().Msg("Skipping Redis setup")
		return nil
	}

	password := util.GetEnvironmentVariable(env, "LIVEBOARD_REDIS_PASSWORD", defaultConnectionPassword)
	database := defaultDatabase

	if env["LIVEBOARD_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["LIVEBOARD_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	statusCmd := client.Ping(context.Background())
	if err := statusCmd.Err(); err != nil {
		return err
	}

	queueConnection, err := rmq.OpenConnectionWithRedisClient("liveboard", client, nil)
	if err != nil {
		return err
	}

	Client = client
	QueueConnection = queueConnection

	log.Info().Str("address", address).Int("database", database).Msg("Redis client setup")

	return nil
}

func Enabled() bool {
	return Client != nil
}
