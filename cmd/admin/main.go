package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/1arunjyoti/resume-builder/internal/auth"
	"github.com/1arunjyoti/resume-builder/internal/config"
	"github.com/1arunjyoti/resume-builder/internal/database"
)

// admin 管理本地口令门禁：
//
//	admin -set-passphrase          随机生成并设置口令（仅显示一次）
//	admin -set-passphrase -passphrase=xxx  设置指定口令
//	admin -clear-passphrase        关闭门禁
func main() {
	var (
		setPass    = flag.Bool("set-passphrase", false, "设置（或更换）解锁口令")
		clearPass  = flag.Bool("clear-passphrase", false, "清除口令，关闭门禁")
		passphrase = flag.String("passphrase", "", "要设置的口令（可选，缺省时随机生成）")
	)
	flag.Parse()

	if *setPass == *clearPass {
		log.Fatal("specify exactly one of -set-passphrase or -clear-passphrase")
	}

	cfg := config.MustLoad()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	repo := database.NewRepo(db)

	ctx := context.Background()
	gate, err := auth.NewGate(ctx, repo, 12*time.Hour)
	if err != nil {
		log.Fatalf("init gate: %v", err)
	}

	if *clearPass {
		if err := gate.ClearPassphrase(ctx); err != nil {
			log.Fatalf("clear passphrase: %v", err)
		}
		fmt.Println("口令已清除，门禁关闭。")
		return
	}

	pass := strings.TrimSpace(*passphrase)
	generated := false
	if pass == "" {
		pass, err = generateRandomPassphrase(18)
		if err != nil {
			log.Fatalf("generate passphrase: %v", err)
		}
		generated = true
	}

	if err := gate.SetPassphrase(ctx, pass); err != nil {
		log.Fatalf("set passphrase: %v", err)
	}

	fmt.Println("口令已设置，门禁开启。")
	if generated {
		fmt.Printf("口令: %s\n", pass)
		fmt.Println("提示：该口令仅显示一次，请妥善保存。")
	}
}

func generateRandomPassphrase(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 18
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
