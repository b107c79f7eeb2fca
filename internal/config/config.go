package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定。DB接続情報はinfra/dbが環境変数から直接読む。
type Config struct {
	Port      string // サーバーポート（8080）
	JWTSecret string // JWT署名シークレット
	GoEnv     string // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:      os.Getenv("PORT"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		GoEnv:     os.Getenv("GO_ENV"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		cfg.GoEnv = "dev"
	}

	return cfg, nil
}
