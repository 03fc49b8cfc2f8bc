package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/cli"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/config"
	"github.com/MatheoAtche/skills-integrate-mcp-with-copilot/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewRootCmd().ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", config.BoldRed("Error:"), err)
		os.Exit(1)
	}
}
