package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "tradeflow/cmd/tradeflow"
	"tradeflow/conf"
	"tradeflow/internal/consts"
	"tradeflow/internal/middleware"
	"tradeflow/pkg/db"
	"tradeflow/pkg/jwt"
	"tradeflow/pkg/kafka"
	"tradeflow/pkg/logger"

	"github.com/spf13/cobra"
)

/*
测试

curl -X POST http://localhost:12180/trades \
  -H "Content-Type: application/json" \
  -d '{"tran_id":"T1","datetime":"2024-01-02T03:04:05Z","status":"filled","symbolBuy":"BTC","symbolSell":"USDT","type":"limit","side":"buy","price":100,"amount":2,"fee":0.1,"exchange":"EX1"}'

curl http://localhost:12180/trades?limit=10&skip=5
*/

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "tradeflow",
		Short:         "trade records REST service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "conf/config.yaml", "config file path")
	root.AddCommand(serveCmd(), migrateCmd(), tailCmd(), tokenCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "start the http server",
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			// 初始化数据库
			datasource, err := api.InitDB(&appCfg)
			if err != nil {
				return err
			}
			// 初始化事件队列
			publisher, rc, err := api.InitPublisher(&appCfg)
			if err != nil {
				_ = db.Close(datasource)
				return err
			}
			srvRouter, ts := api.InitRouter(&appCfg, datasource, publisher)

			// 创建并启动服务
			srv := api.NewServer(&appCfg)
			srv.RegisterOnShutdown(func(ctx context.Context) {
				if err := api.Shutdown(ctx, ts, publisher, rc, datasource); err != nil {
					logger.Errorf("release resources: %v", err)
				}
			})
			return srv.Run(middleware.NewMiddleware(), srvRouter)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update the trades table",
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			datasource, err := api.InitDB(&appCfg)
			if err != nil {
				return err
			}
			logger.Infof("migrate %s database done", appCfg.Db.Driver)
			return db.Close(datasource)
		},
	}
}

// tailCmd 从kafka读取trade事件并打印，用于排查投递
func tailCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "print trade events from the kafka event topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			for m := range kafka.NewConsumer(appCfg.Kafka.Broker).Consume(ctx, consts.TopicEvent, group) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", m.Key, m.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "kafka consumer group, empty reads from the latest offset")
	return cmd
}

// tokenCmd 用 jwt.secret 签发写接口使用的token
func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <subject>",
		Short: "issue a bearer token for the write endpoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := conf.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if appCfg.Jwt.Secret == "" {
				return fmt.Errorf("jwt.secret is empty, write endpoints are not protected")
			}
			ttl := time.Duration(appCfg.Jwt.JwtTtl) * time.Second
			if ttl <= 0 {
				ttl = 24 * time.Hour
			}
			token, err := jwt.GenToken(jwt.BuildClaims(time.Now().Add(ttl), args[0], appCfg.AppName), appCfg.Jwt.Secret)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

// loadConfig 读取配置文件，环境变量优先，并初始化日志
func loadConfig() (conf.Config, error) {
	appCfg, err := conf.LoadConfig(configPath)
	if err != nil {
		return appCfg, err
	}
	applyEnv(&appCfg)
	logger.InitLogger(&appCfg.Log, appCfg.AppName)
	return appCfg, nil
}

func applyEnv(appCfg *conf.Config) {
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	if dbUser != "" && dbPass != "" && dbHost != "" {
		appCfg.Db.Username = dbUser
		appCfg.Db.Password = dbPass
		appCfg.Db.Host = dbHost
		if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
			appCfg.Db.Port = dbPort
		}
		if dbName := os.Getenv("DB_NAME"); dbName != "" {
			appCfg.Db.DbName = dbName
		}
	}

	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	if redisHost != "" && redisPort != "" {
		appCfg.Redis.Addr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		appCfg.Redis.Password = redisPassword
	}

	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		appCfg.Kafka.Broker = broker
	}
	if url := os.Getenv("AMQP_URL"); url != "" {
		appCfg.Amqp.URL = url
	}
}
