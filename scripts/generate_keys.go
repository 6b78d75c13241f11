//go:build ignore

// This script generates secrets for the cart service.
// Run with: go run scripts/generate_keys.go [-api-keys N]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strings"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func main() {
	apiKeyCount := flag.Int("api-keys", 1, "number of API keys to generate for trusted storefront callers")
	flag.Parse()

	// HS256 signing key, 256 bits.
	jwtSecret, err := generateSecureKey(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT secret: %v\n", err)
		os.Exit(1)
	}

	apiKeys := make([]string, 0, *apiKeyCount)
	for i := 0; i < *apiKeyCount; i++ {
		key, err := generateSecureKey(24)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating API key: %v\n", err)
			os.Exit(1)
		}
		apiKeys = append(apiKeys, key)
	}

	fmt.Println("# Storefront cart service secrets")
	fmt.Println("AUTH_ENABLED=true")
	fmt.Printf("JWT_SECRET_KEY=%s\n", jwtSecret)
	if len(apiKeys) > 0 {
		// API keys are only consulted when JWT_SECRET_KEY is unset.
		fmt.Printf("# API_KEYS=%s\n", strings.Join(apiKeys, ","))
	}
}
