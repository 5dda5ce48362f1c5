package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpgate/internal/auth"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const pubsubScope = "https://www.googleapis.com/auth/pubsub"

func (a *App) initConfig() {
	if os.Getenv("LOCAL") == "true" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to load .env file", "error", err)
		}
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.pool = goroutine.NewPool(
		a.config.GetInt("app.dispatcher.workers"),
		a.config.GetInt("app.dispatcher.queue_size"),
	)

	hmac, err := hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))
	if err != nil {
		slog.Error("failed to init hmac", "error", err)
		os.Exit(1)
	}
	a.hmac = hmac

	v, err := validator.NewV10Validator(otp.ParseDigits(a.config.GetInt("modules.auth.otp_digits")).Length())
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = v
}

func (a *App) initJWT() {
	rs, err := jwt.NewRS256(jwt.Config{
		PrivateKeyPEM: a.config.GetString("jwt.private_key"),
		PublicKeyPEM:  a.config.GetString("jwt.public_key"),
		Issuer:        a.config.GetString("jwt.issuer"),
		Clock:         a.clock,
		UUID:          a.uuid,
	})
	if err != nil {
		// never start with an unusable signing identity
		slog.Error("failed to init jwt signer", "error", err, "key_material", errors.Is(err, jwt.ErrKeyMaterialInvalid))
		os.Exit(1)
	}
	slog.Info("jwt signer ready", "kid", rs.Keypair().KID())
	a.jwt = rs
}

// connectBackoff retries startup connections with a capped Fibonacci backoff.
func (a *App) connectBackoff() retry.Backoff {
	maxRetries := a.config.GetUint("app.startup.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	return retry.WithMaxRetries(uint64(maxRetries), b)
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := retry.Do(a.ctx, a.connectBackoff(), func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			slog.Warn("DB not reachable yet", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	if strings.EqualFold(a.config.GetString("modules.auth.store"), auth.StoreMemory) {
		slog.Warn("challenge store is in memory, codes do not survive restarts and are not shared between instances")
		return
	}

	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	if err := retry.Do(a.ctx, a.connectBackoff(), func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			slog.Warn("redis not reachable yet", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr: a.config.GetString("messaging.nsq.producer_addr"),
			ProducerConfig: func() *nsq.Config {
				cfg := nsq.NewConfig()
				cfg.DialTimeout = a.config.GetSecond("messaging.nsq.producer_config.dial_timeout_seconds")
				cfg.ReadTimeout = a.config.GetSecond("messaging.nsq.producer_config.read_timeout_seconds")
				cfg.WriteTimeout = a.config.GetSecond("messaging.nsq.producer_config.write_timeout_seconds")
				return cfg
			}(),
		},
		Kafka: messaging.KafkaConfig{
			Brokers:      a.config.GetArray("messaging.kafka.brokers"),
			ClientID:     a.config.GetString("messaging.kafka.client_id"),
			DialTimeout:  a.config.GetSecond("messaging.kafka.dial_timeout_seconds"),
			WriteTimeout: a.config.GetSecond("messaging.kafka.write_timeout_seconds"),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: a.pubsubOptions(),
		},
		RabbitMQ: messaging.RabbitMQConfig{
			URL:      a.config.GetString("messaging.rabbitmq.url"),
			Exchange: a.config.GetString("messaging.rabbitmq.exchange"),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	slog.Info("messaging ready", "driver", driver)
	a.messaging = client
}

func (a *App) pubsubOptions() []option.ClientOption {
	if !strings.EqualFold(strings.TrimSpace(a.config.GetString("messaging.driver")), messaging.DriverGooglePubSub) {
		return nil
	}

	var opts []option.ClientOption
	if a.config.GetBool("messaging.pubsub.without_auth") {
		opts = append(opts, option.WithoutAuthentication())
	}
	if v := strings.TrimSpace(a.config.GetString("messaging.pubsub.credentials_file")); v != "" {
		// #nosec G304 -- path is from trusted config file.
		credsJSON, err := os.ReadFile(v)
		if err != nil {
			slog.Error("failed to read pubsub credentials file", "error", err)
			os.Exit(1)
		}
		creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, pubsubScope)
		if err != nil {
			slog.Error("failed to parse pubsub credentials file", "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := a.config.GetBinary("messaging.pubsub.credentials_json"); len(v) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, v, pubsubScope)
		if err != nil {
			slog.Error("failed to parse pubsub credentials json", "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := strings.TrimSpace(a.config.GetString("messaging.pubsub.endpoint")); v != "" {
		opts = append(opts, option.WithEndpoint(v))
	}
	return opts
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		UUID:                 a.uuid,
		JWT:                  a.jwt,
		Instrument:           a.ins,
		MaskFields:           a.config.GetArray("instrument.log_mask_fields"),
		MaintenanceEndpoints: a.config.GetArray("app.server.maintenance_endpoints"),
		PublicEndpoints:      publicEndpoints(),
	})

	a.router.GETRaw("/health", http.HandlerFunc(a.health))
	a.router.GETRaw("/metrics", promhttp.Handler())

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []closer{
		{name: "Auth", fn: func(context.Context) error {
			if a.auth == nil {
				return nil
			}
			return a.auth.Close()
		}},
		{name: "Messaging", fn: func(context.Context) error { return a.messaging.Close() }},
		{name: "Redis", fn: func(context.Context) error {
			if a.cacheConn == nil {
				return nil
			}
			return a.cacheConn.Close()
		}},
		{name: "Database", fn: func(context.Context) error {
			a.dbConn.Close()
			return nil
		}},
		{name: "Instrument", fn: a.ins.Shutdown},
		{name: "Config", fn: func(context.Context) error { return a.config.Close() }},
	}
}
