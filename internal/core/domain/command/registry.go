package command

import (
	"errors"
	"imgbot/internal/core/port"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

type Registry struct {
	commands map[string]port.Command
}

func (r *Registry) Register(handler port.Command) {
	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}

	log.Info().Str("handler", handler.GetCommand()).Msg("adding command handler to registry")
	r.commands[strings.ToLower(handler.GetCommand())] = handler
}

func (r *Registry) Get(command string) (port.Command, error) {
	log.Debug().Str("command", command).Msg("fetching command handler from registry")

	if r.commands == nil {
		err := errors.New("can't fetch command, registry not initialized")
		return nil, err
	}

	handler, ok := r.commands[strings.ToLower(command)]
	if !ok {
		return nil, errors.New("command not found")
	}

	return handler, nil
}

func (r *Registry) ListCommands() []string {
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// ParseCommandArgs drops the command word and joins the remaining words with single spaces.
func ParseCommandArgs(args string) string {
	words := strings.Fields(args)
	if len(words) < 2 {
		return ""
	}
	return strings.Join(words[1:], " ")
}

// ParseCommand returns the lower-cased command word without a trailing @botname mention.
func ParseCommand(args string) string {
	words := strings.Fields(args)
	if len(words) == 0 {
		return ""
	}

	command, _, _ := strings.Cut(words[0], "@")
	return strings.ToLower(command)
}
