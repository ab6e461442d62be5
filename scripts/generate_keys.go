//go:build ignore

// This script generates an admin JWT secret and a token signed with it.
// An ADMIN_JWT_SECRET already in the environment is reused; ADMIN_TOKEN_TTL
// sets the token lifetime.
// Run with: go run scripts/generate_keys.go [name]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/guttosm/image-proxy/config"
	"github.com/guttosm/image-proxy/internal/service"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func main() {
	name := "ops"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}

	fmt.Println("=== Image Proxy Key Generator ===")
	fmt.Println()

	auth := config.Load().Auth
	if !auth.Enabled() {
		// 32 bytes = 256 bits, matching HS256
		secret, err := generateSecureKey(32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating admin secret: %v\n", err)
			os.Exit(1)
		}
		auth.AdminJWTSecret = secret
	}

	tokens := service.NewTokenService(auth)
	tok, err := tokens.GenerateToken(name, []string{"admin"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing admin token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add this to your .env file:")
	fmt.Println()
	fmt.Printf("ADMIN_JWT_SECRET=%s\n", auth.AdminJWTSecret)
	fmt.Println()
	fmt.Printf("Admin token for %q (expires in %ds):\n", name, tok.ExpiresIn)
	fmt.Printf("Authorization: Bearer %s\n", tok.Token)
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit the secret to version control")
	fmt.Println("- Use a different secret for each environment")
}
