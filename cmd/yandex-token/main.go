// Command yandex-token obtains a Yandex Disk OAuth token.
//
// With a code argument it exchanges the code directly:
//
//	yandex-token <code>
//
// Without arguments it prints the authorization URL and runs a local
// callback server that captures the redirect and performs the exchange.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/v01cee/convert-yandex-bot/internal/config"
	"github.com/v01cee/convert-yandex-bot/internal/infrastructure/oauth"
	"github.com/v01cee/convert-yandex-bot/pkg/logger"
)

const callbackAddr = "127.0.0.1:8099"

func main() {
	log := logger.New("yandex-token")
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.Yandex.OAuth.ClientID == "" || cfg.Yandex.OAuth.ClientSecret == "" {
		log.Fatal("YANDEX_CLIENT_ID and YANDEX_CLIENT_SECRET must be set")
	}

	redirectURI := cfg.Yandex.OAuth.RedirectURI
	interactive := len(os.Args) < 2
	if interactive {
		redirectURI = "http://" + callbackAddr + "/callback"
	}
	client := oauth.NewClient(cfg.Yandex.OAuth.ClientID, cfg.Yandex.OAuth.ClientSecret, redirectURI)

	if !interactive {
		exchange(client, os.Args[1])
		return
	}

	fmt.Println("1. Open this link and authorize:")
	fmt.Println()
	fmt.Println(client.AuthorizationURL(""))
	fmt.Println()
	fmt.Println("2. Waiting for the redirect on " + callbackAddr + " ...")

	done := make(chan string, 1)

	srv := fiber.New(fiber.Config{DisableStartupMessage: true})
	srv.Get("/callback", func(c *fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).SendString("missing code parameter")
		}
		done <- code
		return c.SendString("Token exchange in progress, check the terminal. You can close this tab.")
	})

	go func() {
		if err := srv.Listen(callbackAddr); err != nil {
			log.Fatalf("callback server: %v", err)
		}
	}()

	code := <-done
	_ = srv.Shutdown()
	exchange(client, code)
}

func exchange(client *oauth.Client, code string) {
	token, err := client.ExchangeCode(context.Background(), code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token exchange failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Token obtained successfully!")
	fmt.Println()
	fmt.Println("Export it as an environment variable:")
	fmt.Printf("export YANDEX_DISK_TOKEN=%q\n", token.AccessToken)
}
