package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpgate/internal/app"
)

// @title           OTPGate API
// @version         1.0
// @description     OTPGate issues one-time codes to registered mobile numbers and exchanges them for RS256 session tokens.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	application.Stop(ctx)
}
