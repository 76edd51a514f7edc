package commands

import (
	"errors"
	"testing"

	"github.com/taskmasterhq/taskmaster/internal/model"
	"github.com/taskmasterhq/taskmaster/internal/store"
)

func TestParseAdd(t *testing.T) {
	cmd, err := Parse("add Buy milk cat:groceries pri:high due:2026-03-01 at:09:00 rem:15min")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Type != TypeAdd || cmd.Add == nil {
		t.Fatalf("expected add command, got %+v", cmd)
	}
	if cmd.Add.Title != "Buy milk" {
		t.Errorf("title = %q", cmd.Add.Title)
	}
	if cmd.Add.Category != "groceries" {
		t.Errorf("category = %q", cmd.Add.Category)
	}
	if cmd.Add.Priority != model.PriorityHigh {
		t.Errorf("priority = %q", cmd.Add.Priority)
	}
	if cmd.Add.DueDate != "2026-03-01" || cmd.Add.DueTime != "09:00" {
		t.Errorf("due = %q %q", cmd.Add.DueDate, cmd.Add.DueTime)
	}
	if cmd.Add.Reminder != model.Reminder15Min {
		t.Errorf("reminder = %q", cmd.Add.Reminder)
	}
}

func TestParseAddTitleOnly(t *testing.T) {
	cmd, err := Parse("/add Walk the dog")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Add.Title != "Walk the dog" {
		t.Errorf("title = %q", cmd.Add.Title)
	}
	if cmd.Add.Priority != "" || cmd.Add.Reminder != "" {
		t.Errorf("expected zero refinements, got %+v", cmd.Add)
	}
}

func TestParseAddRejectsBadTokens(t *testing.T) {
	cases := []string{
		"add Task pri:urgent",
		"add Task rem:2hours",
		"add cat:work",
	}
	for _, in := range cases {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestParseTargets(t *testing.T) {
	cmd, err := Parse("done 3f2a")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Type != TypeDone || cmd.Done.Target != "3f2a" {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	cmd, err = Parse("rm 3f2a")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Type != TypeRemove || cmd.Remove.Target != "3f2a" {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	if _, err := Parse("done"); err == nil {
		t.Error("done without id should fail")
	}
}

func TestParseSearch(t *testing.T) {
	cmd, err := Parse("search project report")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Search.Query != "project report" {
		t.Errorf("query = %q", cmd.Search.Query)
	}

	cmd, err = Parse("search")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Search.Query != "" {
		t.Errorf("empty search query = %q", cmd.Search.Query)
	}
}

func TestParseFilterAndSort(t *testing.T) {
	cmd, err := Parse("filter pending")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Filter.Tag != store.FilterPending {
		t.Errorf("tag = %q", cmd.Filter.Tag)
	}
	if _, err := Parse("filter overdue"); err == nil {
		t.Error("unknown filter should fail")
	}

	cmd, err = Parse("sort date-asc")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Sort.Key != store.SortDateAsc {
		t.Errorf("key = %q", cmd.Sort.Key)
	}
	if _, err := Parse("sort alphabetical"); err == nil {
		t.Error("unknown sort key should fail")
	}
}

func TestParseCategory(t *testing.T) {
	cmd, err := Parse("cat add Side Projects color:#FF8800")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Category.Action != "add" || cmd.Category.Name != "Side Projects" || cmd.Category.Color != "#FF8800" {
		t.Fatalf("unexpected args: %+v", cmd.Category)
	}

	cmd, err = Parse("cat rm work")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Category.Action != "rm" || cmd.Category.Target != "work" {
		t.Fatalf("unexpected args: %+v", cmd.Category)
	}

	if _, err := Parse("cat rename work"); err == nil {
		t.Error("unknown cat action should fail")
	}
}

func TestParseErrors(t *testing.T) {
	var cmdErr *CommandError

	_, err := Parse("   ")
	if !errors.As(err, &cmdErr) || cmdErr.Code != ErrCodeEmptyInput {
		t.Errorf("blank input: %v", err)
	}

	_, err = Parse("teleport home")
	if !errors.As(err, &cmdErr) || cmdErr.Code != ErrCodeUnknownCommand {
		t.Errorf("unknown command: %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("done abc")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := Execute(cmd, Handlers{
		Done: func(a TargetArgs) (Result, error) {
			return Result{Message: "completed " + a.Target}, nil
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Message != "completed abc" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("export")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected handler_missing, got %v", err)
	}
}
