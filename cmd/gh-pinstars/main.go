package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/stahnma/gh-pinstars/internal/commands"
	lambdapkg "github.com/stahnma/gh-pinstars/internal/lambda"
)

var (
	GitSHA   string
	GitDirty string
)

func main() {
	app := commands.NewApp(GitSHA, GitDirty)

	if os.Getenv("LAMBDA_TASK_ROOT") != "" {
		awslambda.Start(lambdapkg.NewHandler(app))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		stop()
		os.Exit(1)
	}
}
