// Команда token выпускает JWT для локальной разработки.
//
//	go run ./cmd/token -user alice -role moderator -ttl 24h
//
// Секрет берется из -secret, затем JWT_SECRET, затем из конфигурации.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"lumina_backend/internal/auth"
	"lumina_backend/internal/config"
	"lumina_backend/internal/models"
)

func main() {
	userID := flag.String("user", "", "user id (required)")
	role := flag.String("role", string(models.UserRoleMember), "member or moderator")
	ttl := flag.Duration("ttl", 7*24*time.Hour, "token lifetime")
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "signing secret")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *secret == "" {
		*secret = config.GetConfig().JWT.Secret
	}

	token, err := auth.NewTokenManager(*secret, *ttl).Generate(*userID, models.UserRole(*role), *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
