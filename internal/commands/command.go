package commands

import (
	"fmt"
	"strings"

	"github.com/habitd/habitd/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeUndo   Type = "undo"
	TypeRemove Type = "remove"
	TypeShow   Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Name      string
	TimeOfDay string
	Frequency model.Frequency
}

type DoneArgs struct {
	Target string
}

type RemoveArgs struct {
	Target string
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Remove *RemoveArgs
	Show   *ShowArgs
}

// Parse understands habit palette commands:
//
//	/add <name...> <HH:MM> [daily|every_2_days|weekly|monthly]
//	/done <id|name>      /undo <id|name>
//	/remove <id|name>
//	/show habits|stats|settings
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseTarget(input, TypeDone, args)
	case TypeUndo:
		return parseTarget(input, TypeUndo, args)
	case TypeRemove:
		return parseTarget(input, TypeRemove, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name and a time"}
	}

	freq := model.FrequencyDaily
	if parsed, err := model.ParseFrequency(strings.ToLower(args[len(args)-1])); err == nil {
		freq = parsed
		args = args[:len(args)-1]
	}
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name and a time"}
	}

	timeOfDay := args[len(args)-1]
	if _, _, err := model.ParseTimeOfDay(timeOfDay); err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid time of day: %s", timeOfDay)}
	}

	name := strings.TrimSpace(strings.Join(args[:len(args)-1], " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name, TimeOfDay: timeOfDay, Frequency: freq}}, nil
}

func parseTarget(raw string, t Type, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a habit id or name", t)}
	}
	target := strings.TrimSpace(strings.Join(args, " "))
	switch t {
	case TypeDone, TypeUndo:
		return Command{Type: t, Raw: raw, Done: &DoneArgs{Target: target}}, nil
	default:
		return Command{Type: t, Raw: raw, Remove: &RemoveArgs{Target: target}}, nil
	}
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "habits", "stats", "settings":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown show subject: %s", subject)}
	}
}
