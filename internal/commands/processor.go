package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/pkg/errors"
	"github.com/prbot/prbot/pkg/logger"
)

// Processor parses and executes one command line, reporting failures back
// to the comment author instead of failing the event.
type Processor struct {
	BotName string
}

// Process handles one comment line. Unaddressed lines are ignored; parse and
// execution failures are answered with a confused reaction and an error
// reply, and never propagate.
func (p *Processor) Process(ctx context.Context, env *Env, line string) (Output, error) {
	command, err := Parse(p.BotName, line)
	if err != nil {
		return p.fail(ctx, env, "Invalid command", err)
	}
	if command == nil {
		return Output{}, nil
	}

	logger.Info("Command detected",
		zap.String("command", line),
		zap.String("author", env.Author))

	output, err := command.Run(ctx, env)
	if err != nil {
		return p.fail(ctx, env, "Command execution error", err)
	}
	return output, nil
}

// fail reports a command failure to the author. Reporting failures are
// returned since nothing else can surface them.
func (p *Processor) fail(ctx context.Context, env *Env, prefix string, cause error) (Output, error) {
	message := cause.Error()
	if appErr, ok := errors.AsAppError(cause); ok {
		message = appErr.Message
	}

	if err := env.react(ctx, github.ReactionConfused); err != nil {
		return Output{}, err
	}
	if err := env.reply(ctx, prefix+": "+message); err != nil {
		return Output{}, err
	}
	return Output{}, nil
}
