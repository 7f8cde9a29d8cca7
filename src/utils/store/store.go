package store

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"
	"github.com/hyle-org/buy-my-tweet/src/utils/logger"
	"github.com/hyle-org/buy-my-tweet/src/utils/task"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username taken")
	ErrNotConnected  = errors.New("store not connected")
)

// Redis backed storage of users, credentials, ceremony sessions and proofs
type Store struct {
	config *config.Config
	log    *logrus.Entry
	client *redis.Client
}

func NewStore(config *config.Config) (self *Store) {
	self = new(Store)
	self.config = config
	self.log = logger.NewSublogger("store")
	return
}

// Uses an already connected client
func (self *Store) WithClient(client *redis.Client) *Store {
	self.client = client
	return self
}

func (self *Store) Connect() (err error) {
	if self.client != nil {
		return nil
	}

	redisConfig := self.config.Redis
	opts := redis.Options{
		Addr:            fmt.Sprintf("%s:%d", redisConfig.Host, redisConfig.Port),
		Password:        redisConfig.Password,
		Username:        redisConfig.User,
		DB:              redisConfig.DB,
		MinIdleConns:    redisConfig.MinIdleConns,
		MaxIdleConns:    redisConfig.MaxIdleConns,
		ConnMaxIdleTime: redisConfig.ConnMaxIdleTime,
		PoolSize:        redisConfig.MaxOpenConns,
		ConnMaxLifetime: redisConfig.ConnMaxLifetime,
	}

	if redisConfig.ClientCert != "" && redisConfig.ClientKey != "" && redisConfig.CaCert != "" {
		cert, err := tls.X509KeyPair([]byte(redisConfig.ClientCert), []byte(redisConfig.ClientKey))
		if err != nil {
			self.log.WithError(err).Error("Failed to load client cert")
			return err
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM([]byte(redisConfig.CaCert)) {
			return errors.New("failed to append CA cert to pool")
		}

		opts.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			RootCAs:      caCertPool,
			ClientCAs:    caCertPool,
			Certificates: []tls.Certificate{cert},
		}
	}

	client := redis.NewClient(&opts)

	// Redis may start after us
	err = task.NewRetry().
		WithMaxElapsedTime(redisConfig.ConnectMaxElapsedTime).
		WithMaxInterval(5 * time.Second).
		WithOnError(func(err error) error {
			self.log.WithError(err).Warn("Failed to ping Redis, retrying")
			return err
		}).
		Run(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), redisConfig.PingTimeout)
			defer cancel()
			return client.Ping(ctx).Err()
		})
	if err != nil {
		self.log.WithError(err).Error("Failed to connect to Redis")
		_ = client.Close()
		return
	}

	self.client = client
	self.log.WithField("addr", opts.Addr).Info("Connected to Redis")
	return
}

func (self *Store) Close() {
	if self.client == nil {
		return
	}
	err := self.client.Close()
	if err != nil {
		self.log.WithError(err).Error("Failed to close connection")
	}
	self.client = nil
}

func (self *Store) Ping(ctx context.Context) error {
	if self.client == nil {
		return ErrNotConnected
	}
	return self.client.Ping(ctx).Err()
}

func userKey(username string) string {
	return "user:" + username
}

func userNameKey(userId string) string {
	return "user-name:" + userId
}

func credentialsKey(userId string) string {
	return "credentials:" + userId
}

func challengeKey(userId string) string {
	return "challenge:" + userId
}

const (
	latestProofKey      = "latest_proof"
	latestProofErrorKey = "latest_proof_error"
)

func notFound(err error) error {
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	return err
}

// Id of the user registered under the username
func (self *Store) GetUserId(ctx context.Context, username string) (out string, err error) {
	out, err = self.client.Get(ctx, userKey(username)).Result()
	err = notFound(err)
	return
}

func (self *Store) GetUserName(ctx context.Context, userId string) (out string, err error) {
	out, err = self.client.Get(ctx, userNameKey(userId)).Result()
	err = notFound(err)
	return
}

// Indexes the username in both directions, fails if the username belongs to someone else
func (self *Store) SetUser(ctx context.Context, userId, username string) (err error) {
	ok, err := self.client.SetNX(ctx, userKey(username), userId, 0).Result()
	if err != nil {
		return
	}
	if !ok {
		var current string
		current, err = self.GetUserId(ctx, username)
		if err != nil {
			return
		}
		if current != userId {
			return ErrUsernameTaken
		}
	}

	return self.client.Set(ctx, userNameKey(userId), username, 0).Err()
}

// Credentials of the user, by credential id
func (self *Store) GetCredentials(ctx context.Context, userId string) (out map[string][]byte, err error) {
	values, err := self.client.HGetAll(ctx, credentialsKey(userId)).Result()
	if err != nil {
		return
	}

	out = make(map[string][]byte, len(values))
	for id, value := range values {
		out[id] = []byte(value)
	}
	return
}

// Inserts or replaces a credential
func (self *Store) StoreCredential(ctx context.Context, userId, credentialId string, credential []byte) (err error) {
	return self.client.HSet(ctx, credentialsKey(userId), credentialId, credential).Err()
}

func (self *Store) RemoveCredential(ctx context.Context, userId, credentialId string) (err error) {
	removed, err := self.client.HDel(ctx, credentialsKey(userId), credentialId).Result()
	if err != nil {
		return
	}
	if removed == 0 {
		return ErrNotFound
	}
	return
}

// Session data of a pending ceremony, expires after ttl
func (self *Store) StoreSession(ctx context.Context, userId string, session []byte, ttl time.Duration) (err error) {
	return self.client.Set(ctx, challengeKey(userId), session, ttl).Err()
}

func (self *Store) GetSession(ctx context.Context, userId string) (out []byte, err error) {
	out, err = self.client.Get(ctx, challengeKey(userId)).Bytes()
	err = notFound(err)
	return
}

// Returns the session and removes it, a session can be used once
func (self *Store) ConsumeSession(ctx context.Context, userId string) (out []byte, err error) {
	out, err = self.client.GetDel(ctx, challengeKey(userId)).Bytes()
	err = notFound(err)
	return
}

// Latest verified proof
type LatestProof struct {
	Proof     []byte
	Timestamp time.Time
}

const timestampField = "timestamp"
const proofField = "proof"

func (self *Store) StoreLatestProof(ctx context.Context, proof []byte) (err error) {
	_, err = self.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, latestProofKey, proofField, proof, timestampField, time.Now().UnixMilli())
		pipe.Del(ctx, latestProofErrorKey)
		return nil
	})
	return
}

func (self *Store) GetLatestProof(ctx context.Context) (out *LatestProof, err error) {
	values, err := self.client.HGetAll(ctx, latestProofKey).Result()
	if err != nil {
		return
	}

	proof, ok := values[proofField]
	if !ok {
		err = ErrNotFound
		return
	}

	millis, err := strconv.ParseInt(values[timestampField], 10, 64)
	if err != nil {
		return
	}

	out = &LatestProof{
		Proof:     []byte(proof),
		Timestamp: time.UnixMilli(millis),
	}
	return
}

func (self *Store) ClearLatestProof(ctx context.Context) (err error) {
	return self.client.Del(ctx, latestProofKey, latestProofErrorKey).Err()
}

func (self *Store) StoreProofError(ctx context.Context, message string) (err error) {
	return self.client.Set(ctx, latestProofErrorKey, message, 0).Err()
}

func (self *Store) GetProofError(ctx context.Context) (out string, err error) {
	out, err = self.client.Get(ctx, latestProofErrorKey).Result()
	err = notFound(err)
	return
}
