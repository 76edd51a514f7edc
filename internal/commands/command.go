package commands

import (
	"fmt"
	"strings"

	"github.com/taskmasterhq/taskmaster/internal/model"
	"github.com/taskmasterhq/taskmaster/internal/store"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeRemove   Type = "rm"
	TypeSearch   Type = "search"
	TypeFilter   Type = "filter"
	TypeSort     Type = "sort"
	TypeCategory Type = "cat"
	TypeExport   Type = "export"
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

// AddArgs carries a new task. Inline tokens refine it: cat:<id>, pri:<level>,
// due:<yyyy-mm-dd>, at:<hh:mm>, rem:<lead>. Everything else is the title.
type AddArgs struct {
	Title    string
	Category string
	Priority model.Priority
	DueDate  string
	DueTime  string
	Reminder model.ReminderLead
}

type TargetArgs struct {
	Target string
}

type SearchArgs struct {
	Query string
}

type FilterArgs struct {
	Tag store.FilterTag
}

type SortArgs struct {
	Key store.SortKey
}

type CategoryArgs struct {
	Action string // "add" or "rm"
	Name   string
	Target string
	Color  string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Done     *TargetArgs
	Remove   *TargetArgs
	Search   *SearchArgs
	Filter   *FilterArgs
	Sort     *SortArgs
	Category *CategoryArgs
}

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
	case TypeRemove:
		return parseTarget(input, TypeRemove, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSort:
		return parseSort(input, args)
	case TypeCategory:
		return parseCategory(input, args)
	case TypeExport:
		return Command{Type: TypeExport, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	title := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "cat:"):
			out.Category = arg[len("cat:"):]
		case strings.HasPrefix(lower, "pri:"):
			p := model.Priority(strings.TrimPrefix(lower, "pri:"))
			if !p.IsValid() {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority: %s", p)}
			}
			out.Priority = p
		case strings.HasPrefix(lower, "due:"):
			out.DueDate = arg[len("due:"):]
		case strings.HasPrefix(lower, "at:"):
			out.DueTime = arg[len("at:"):]
		case strings.HasPrefix(lower, "rem:"):
			r := model.ReminderLead(strings.TrimPrefix(lower, "rem:"))
			if !r.IsValid() {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown reminder lead: %s", r)}
			}
			out.Reminder = r
		default:
			title = append(title, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(title, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseTarget(raw string, t Type, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task id", t)}
	}
	target := &TargetArgs{Target: args[0]}
	cmd := Command{Type: t, Raw: raw}
	if t == TypeDone {
		cmd.Done = target
	} else {
		cmd.Remove = target
	}
	return cmd, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires all, completed or pending"}
	}
	tag := store.FilterTag(strings.ToLower(args[0]))
	switch tag {
	case store.FilterAll, store.FilterCompleted, store.FilterPending:
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Tag: tag}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown filter: %s", args[0])}
	}
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sort requires a key"}
	}
	key := store.SortKey(strings.ToLower(args[0]))
	switch key {
	case store.SortDateAsc, store.SortDateDesc, store.SortPriorityAsc, store.SortPriorityDesc, store.SortCreatedDesc:
		return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Key: key}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown sort key: %s", args[0])}
	}
}

func parseCategory(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "cat requires add <name> or rm <id>"}
	}
	action := strings.ToLower(args[0])
	switch action {
	case "add":
		out := CategoryArgs{Action: action}
		name := make([]string, 0, len(args)-1)
		for _, arg := range args[1:] {
			if strings.HasPrefix(strings.ToLower(arg), "color:") {
				out.Color = arg[len("color:"):]
				continue
			}
			name = append(name, arg)
		}
		out.Name = strings.TrimSpace(strings.Join(name, " "))
		if out.Name == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "cat add requires a name"}
		}
		return Command{Type: TypeCategory, Raw: raw, Category: &out}, nil
	case "rm":
		return Command{Type: TypeCategory, Raw: raw, Category: &CategoryArgs{Action: action, Target: args[1]}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown cat action: %s", action)}
	}
}
