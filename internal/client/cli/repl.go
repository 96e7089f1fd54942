package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	hasUser() bool
	SignIn(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error
	Use(ctx context.Context, args []string) error
	New(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Find(ctx context.Context, args []string) error
	Tags(ctx context.Context, args []string) error
	Tag(ctx context.Context, args []string) error
	Untag(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Sync(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
}

var errUsage = errors.New("usage")

// usageError tells the REPL to print the command's usage line.
func usageError(usage string) error {
	return fmt.Errorf("%w: %s", errUsage, usage)
}

// runREPL reads one command per line from reader and dispatches it. Errors
// from handlers are printed and the loop carries on. The loop exits on EOF
// or on "exit"/"quit".
//
//	Without a selected user:
//	  signin, users, use <userId>, status, exit
//
//	With a selected user, additionally:
//	  new [title], edit <id>, rm <id>, ls, show <id>, find <query>,
//	  tags, tag <noteId> <name>, untag <noteId> <name>,
//	  attach <noteId> <uri>, sync
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("notes %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.hasUser() {
				printlnFn("Available commands: new, edit, rm, ls, show, find, tags, tag, untag, attach, sync, status, signin, users, use, exit")
			} else {
				printlnFn("Available commands: signin, users, use, status, exit")
			}
		case "signin":
			cmdErr = a.SignIn(ctx, args)
		case "users":
			cmdErr = a.Users(ctx, args)
		case "use":
			cmdErr = a.Use(ctx, args)
		case "new":
			cmdErr = a.New(ctx, args)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "rm":
			cmdErr = a.Remove(ctx, args)
		case "l", "ls":
			cmdErr = a.List(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "find":
			cmdErr = a.Find(ctx, args)
		case "tags":
			cmdErr = a.Tags(ctx, args)
		case "tag":
			cmdErr = a.Tag(ctx, args)
		case "untag":
			cmdErr = a.Untag(ctx, args)
		case "attach":
			cmdErr = a.Attach(ctx, args)
		case "sync":
			cmdErr = a.Sync(ctx, args)
		case "status":
			cmdErr = a.Status(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			if errors.Is(cmdErr, errUsage) {
				printlnFn("Usage:", strings.TrimPrefix(cmdErr.Error(), "usage: "))
			} else {
				printlnFn("Error:", cmdErr)
			}
		}
		if err != nil {
			return
		}
	}
}
