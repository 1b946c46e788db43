// ABOUTME: Menu-driven terminal shell over the directory, chat and message services
// ABOUTME: Operation failures render as one line and the loop continues; only an explicit exit stops it

package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/parley-im/parley/internal/auth"
	"github.com/parley-im/parley/internal/chat"
	"github.com/parley-im/parley/internal/directory"
	"github.com/parley-im/parley/internal/message"
	"github.com/parley-im/parley/internal/session"
	"github.com/parley-im/parley/internal/store"
)

// Shell drives the interactive menus. It owns no domain logic; every choice
// maps onto one service call and every failure is a single printed line.
type Shell struct {
	in        *bufio.Reader
	out       io.Writer
	auth      *auth.Provider
	directory *directory.Service
	chats     *chat.Service
	messages  *message.Service
	prefs     Prefs
	logger    *slog.Logger

	// eof flips when stdin is exhausted; every menu loop winds down on it
	eof bool

	errColor    *color.Color
	titleColor  *color.Color
	promptColor *color.Color
}

// New creates a shell reading from in and writing to out.
func New(in io.Reader, out io.Writer, authp *auth.Provider, dir *directory.Service, chats *chat.Service, messages *message.Service, prefs Prefs, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}

	errColor := color.New(color.FgRed)
	titleColor := color.New(color.FgCyan, color.Bold)
	promptColor := color.New(color.FgYellow)
	if !prefs.Colors {
		errColor.DisableColor()
		titleColor.DisableColor()
		promptColor.DisableColor()
	}

	return &Shell{
		in:          bufio.NewReader(in),
		out:         out,
		auth:        authp,
		directory:   dir,
		chats:       chats,
		messages:    messages,
		prefs:       prefs,
		logger:      logger.With("component", "shell"),
		errColor:    errColor,
		titleColor:  titleColor,
		promptColor: promptColor,
	}
}

// Run loops over the top-level menu until the user exits, stdin is
// exhausted, or the context is cancelled.
func (sh *Shell) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if sh.eof {
			return nil
		}

		sh.clear()
		sh.title("MAIN MENU")
		fmt.Fprintln(sh.out, "1. Create user")
		fmt.Fprintln(sh.out, "2. Log in")
		fmt.Fprintln(sh.out, "9. < EXIT")

		switch sh.readChoice() {
		case 1:
			sh.createUser(ctx)
		case 2:
			sess, err := sh.logIn(ctx)
			if err != nil {
				sh.fail(err)
				continue
			}
			if sess != nil {
				sh.userMenu(session.WithSession(ctx, sess))
			}
		case 9:
			return nil
		default:
			fmt.Fprintln(sh.out, "Unrecognized choice!")
		}
	}
}

// userMenu is the per-session menu; ctx carries the session identity.
func (sh *Shell) userMenu(ctx context.Context) {
	sess := session.MustFromContext(ctx)
	for {
		if ctx.Err() != nil || sh.eof {
			return
		}

		sh.clear()
		sh.title("MAIN MENU (" + sess.Login + ")")
		fmt.Fprintln(sh.out, "1. Access contacts list")
		fmt.Fprintln(sh.out, "2. Access blocks list")
		fmt.Fprintln(sh.out, "3. Start or leave a chat")
		fmt.Fprintln(sh.out, "4. Browse active chats")
		fmt.Fprintln(sh.out, "5. Delete account")
		fmt.Fprintln(sh.out, ".........................")
		fmt.Fprintln(sh.out, "9. Log out")

		switch sh.readChoice() {
		case 1:
			sh.listMenu(ctx, "Contacts",
				sh.directory.Contacts, sh.directory.AddContact, sh.directory.RemoveContact)
		case 2:
			sh.listMenu(ctx, "Blocks",
				sh.directory.Blocks, sh.directory.AddBlock, sh.directory.RemoveBlock)
		case 3:
			sh.chatMenu(ctx)
		case 4:
			sh.browseChats(ctx)
		case 5:
			if sh.deleteAccount(ctx) {
				return
			}
		case 9:
			return
		default:
			fmt.Fprintln(sh.out, "Unrecognized choice!")
		}
	}
}

func (sh *Shell) createUser(ctx context.Context) {
	sh.clear()
	login := sh.prompt("Enter user login: ")
	password := sh.prompt("Enter user password: ")
	phone := sh.prompt("Enter user phone: ")

	if err := sh.auth.Register(ctx, login, password, phone); err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintln(sh.out, "User successfully created!")
}

func (sh *Shell) logIn(ctx context.Context) (*session.Session, error) {
	sh.clear()
	login := sh.prompt("Enter user login: ")
	password := sh.prompt("Enter user password: ")

	sess, err := sh.auth.Login(ctx, login, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		fmt.Fprintln(sh.out, "User name or password entered is not valid")
		return nil, nil
	}
	return sess, err
}

// listMenu serves both the contacts and the blocks list; the three service
// functions decide which relation is in play.
func (sh *Shell) listMenu(
	ctx context.Context,
	name string,
	list func(context.Context, string) ([]string, error),
	add, remove func(ctx context.Context, owner, target string) error,
) {
	sess := session.MustFromContext(ctx)
	for {
		if sh.eof {
			return
		}

		sh.clear()
		sh.title(name + " Menu")
		fmt.Fprintf(sh.out, "1. Browse %s list\n", strings.ToLower(name))
		fmt.Fprintf(sh.out, "2. Add to %s list\n", strings.ToLower(name))
		fmt.Fprintf(sh.out, "3. Remove from %s list\n", strings.ToLower(name))
		fmt.Fprintln(sh.out, ".........................")
		fmt.Fprintln(sh.out, "9. Go back to main menu")

		switch sh.readChoice() {
		case 1:
			members, err := list(ctx, sess.Login)
			if err != nil {
				sh.fail(err)
				continue
			}
			if len(members) == 0 {
				fmt.Fprintf(sh.out, "%s list is empty\n", name)
			}
			for _, member := range members {
				fmt.Fprintln(sh.out, member)
			}
			sh.pause()
		case 2:
			target := sh.prompt("Enter user login to add (blank to go back): ")
			if target == "" {
				continue
			}
			if err := add(ctx, sess.Login, target); err != nil {
				sh.fail(err)
				continue
			}
			fmt.Fprintf(sh.out, "Successfully added %s\n", target)
		case 3:
			target := sh.prompt("Enter user login to remove (blank to go back): ")
			if target == "" {
				continue
			}
			if err := remove(ctx, sess.Login, target); err != nil {
				sh.fail(err)
				continue
			}
			fmt.Fprintf(sh.out, "Successfully removed %s\n", target)
		case 9:
			return
		default:
			fmt.Fprintln(sh.out, "Unrecognized choice!")
		}
	}
}

func (sh *Shell) deleteAccount(ctx context.Context) bool {
	sess := session.MustFromContext(ctx)
	answer := sh.prompt("Are you sure you wish to delete your account? (y/n): ")
	if answer != "y" {
		return false
	}

	if err := sh.directory.DeleteUser(ctx, sess.Login); err != nil {
		sh.fail(err)
		return false
	}
	fmt.Fprintf(sh.out, "Account %s removed\n", sess.Login)
	return true
}

// fail prints one explanatory line for an operation error. The categories
// mirror the service sentinels so the wording stays consistent everywhere.
func (sh *Shell) fail(err error) {
	var line string
	switch {
	case errors.Is(err, store.ErrNotFound):
		line = "Error: can not find that user, chat or message"
	case errors.Is(err, store.ErrDuplicateLogin):
		line = "Error: that login is already taken"
	case errors.Is(err, store.ErrDuplicateMembership):
		line = "Error: already a member"
	case errors.Is(err, store.ErrReferentialConflict):
		line = "Error: you have records referring to this account so it cannot be deleted"
	case errors.Is(err, message.ErrEmptyText):
		line = "Error: message text must not be empty"
	case errors.Is(err, message.ErrForbidden), errors.Is(err, chat.ErrForbidden):
		line = "Error: you are not allowed to do that"
	default:
		line = "Error: " + err.Error()
	}
	sh.errColor.Fprintln(sh.out, line)
	sh.logger.Debug("operation failed", "error", err)
	sh.pause()
}

func (sh *Shell) title(s string) {
	sh.titleColor.Fprintln(sh.out, s)
	fmt.Fprintln(sh.out, strings.Repeat("-", len(s)))
}

func (sh *Shell) clear() {
	if sh.prefs.ClearScreen {
		fmt.Fprint(sh.out, "\033[H\033[2J")
	}
}

// prompt reads one trimmed line of input. A read error means stdin is
// closed (Ctrl-D, piped input exhausted); the eof flag stops the menu
// loops from spinning on a source that can never answer again.
func (sh *Shell) prompt(label string) string {
	sh.promptColor.Fprint(sh.out, label)
	line, err := sh.in.ReadString('\n')
	if err != nil {
		sh.eof = true
	}
	return strings.TrimSpace(line)
}

// pause waits for enter so output isn't wiped by the next clear.
func (sh *Shell) pause() {
	if sh.prefs.ClearScreen {
		sh.prompt("Press enter to continue...")
	}
}

// readChoice keeps asking until the line parses as an integer.
func (sh *Shell) readChoice() int {
	for {
		line := sh.prompt("Please make your choice: ")
		if line == "" {
			return -1
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(sh.out, "Your input is invalid!")
			continue
		}
		return n
	}
}

// readID parses a positive integer id, 0 meaning "go back".
func (sh *Shell) readID(label string) int64 {
	for {
		line := sh.prompt(label)
		if line == "" {
			return 0
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintln(sh.out, "Your input is invalid!")
			continue
		}
		return id
	}
}
