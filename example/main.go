package main

import (
	"log"
	"os"

	"github.com/panjf2000/ants/v2"
	gnet "github.com/panjf2000/gnet/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/J1407B-K/mpstream/buff"
)

const (
	listenAddr    = ":8080"
	workerPoolCap = 64
)

func newLogger() *zap.Logger {
	rotator := &lumberjack.Logger{
		Filename:   "mpstream-example.log",
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), zap.InfoLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stdout), zap.InfoLevel),
	)
	return zap.New(core)
}

func main() {
	logger := newLogger()
	defer logger.Sync()

	pool, err := ants.NewPool(workerPoolCap)
	if err != nil {
		logger.Fatal("failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	spoolDir, err := os.MkdirTemp("", "mpstream-example-spool-*")
	if err != nil {
		logger.Fatal("failed to create spool dir", zap.Error(err))
	}
	defer os.RemoveAll(spoolDir)

	server := newUploadServer(logger, pool, spoolDir)
	handler := newUploadHandler(server)

	logger.Info("listening", zap.String("addr", listenAddr))
	log.Fatal(gnet.Run(handler, buff.EnsureProtoAddr(listenAddr), gnet.WithMulticore(true)))
}
