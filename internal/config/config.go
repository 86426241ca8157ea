package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	GoEnv     string // dev/prod
	APIDomain string // APIドメイン（cookieなどで使う）
	FEURL     string // フロントURL（CORSなどで使う）
}

// Loadは環境変数から設定を組み立てる。DB接続情報はinfra/dbが直接読む。
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:     getenv("GO_ENV", "dev"),
		APIDomain: os.Getenv("API_DOMAIN"),
		FEURL:     getenv("FE_URL", "http://localhost:3000"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
