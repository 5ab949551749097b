package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tradeflow/conf"
	"tradeflow/pkg/logger"
	"tradeflow/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Router 加载路由，使用侧提供接口，实现侧需要实现该接口
type Router interface {
	Load(engine *gin.Engine)
}

type Server struct {
	config *conf.Config
	f      func(ctx context.Context)
}

func NewServer(c *conf.Config) *Server {
	return &Server{
		config: c,
	}
}

func (s *Server) Run(rs ...Router) error {
	var wg sync.WaitGroup
	wg.Add(1)
	// 设置gin启动模式，必须在创建gin实例之前
	gin.SetMode(s.config.Mode)
	// gin validator替换，必须在请求绑定之前
	validator.LazyInitGinValidator(s.config.Language)
	g := gin.New()
	s.routerLoad(g, rs...)

	// health check
	go func() {
		if err := Ping(s.config.Listen, s.config.MaxPingCount); err != nil {
			logger.Fatal("server no response", zap.Error(err))
		}
		logger.Infof("server started success! listen: %s", s.config.Listen)
	}()

	srv := http.Server{
		Addr:    s.config.Listen,
		Handler: g,
	}
	// graceful shutdown
	sgn := make(chan os.Signal, 1)
	signal.Notify(sgn, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer wg.Done()
		<-sgn
		logger.Infof("server shutdown")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorf("server shutdown err %v", err)
		}
		// 连接全部关闭后再释放资源
		if s.f != nil {
			s.f(ctx)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("server start failed on %s", s.config.Listen)
		return err
	}
	wg.Wait()
	logger.Infof("server stop on %s", s.config.Listen)
	return nil
}

// RouterLoad 加载自定义路由
func (s *Server) routerLoad(g *gin.Engine, rs ...Router) *Server {
	for _, r := range rs {
		r.Load(g)
	}
	return s
}

// RegisterOnShutdown 注册shutdown后的回调处理函数，用于清理资源
func (s *Server) RegisterOnShutdown(_f func(ctx context.Context)) {
	s.f = _f
}

// pingURL 由监听地址推导出本机的健康检查地址
func pingURL(listen string) (string, error) {
	if len(listen) == 0 {
		return "", fmt.Errorf("please specify the service port")
	}
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", listen, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s/ping", net.JoinHostPort(host, port)), nil
}

// Ping 用来检查是否程序正常启动
func Ping(listen string, maxCount int) error {
	url, err := pingURL(listen)
	if err != nil {
		return err
	}
	seconds := 1
	for i := 0; i < maxCount; i++ {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		logger.Infof("等待服务在线, 已等待 %d 秒，最多等待 %d 秒", seconds, maxCount)
		time.Sleep(time.Second)
		seconds++
	}
	return fmt.Errorf("服务启动失败，地址 %s", listen)
}
