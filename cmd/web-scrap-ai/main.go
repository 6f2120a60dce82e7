package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/AK2k30/npm-web-scrapper/internal/app"
	"github.com/AK2k30/npm-web-scrapper/internal/prompt"
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	// a second signal falls through to the default handler and kills the process
	go func() {
		<-ctx.Done()
		stop()
	}()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	os.Exit(exitCode(err))
}

// exitCode reports err and maps it to the process status. Answers that end
// a flow early are not failures.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var inputErr *app.UserInputError
	switch {
	case errors.As(err, &inputErr):
		color.New(color.FgYellow).Fprintln(os.Stdout, inputErr.Msg)
		return 0
	case errors.Is(err, prompt.ErrClosed):
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "Interrupted.")
		return 1
	default:
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}
