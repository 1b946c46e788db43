// ABOUTME: Chat and message menus for the interactive shell
// ABOUTME: Start/leave/modify chats, browse them, and page through message history ten at a time

package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/parley-im/parley/internal/session"
)

func (sh *Shell) chatMenu(ctx context.Context) {
	sh.clear()
	sh.title("Start, Leave, or Modify a Chat")
	fmt.Fprintln(sh.out, "1. Start a chat")
	fmt.Fprintln(sh.out, "2. Leave a chat")
	fmt.Fprintln(sh.out, "3. Modify a chat")
	fmt.Fprintln(sh.out, "---------------------")
	fmt.Fprintln(sh.out, "9. Back to main menu")

	switch sh.readChoice() {
	case 1:
		sh.startChat(ctx)
	case 2:
		sh.leaveChat(ctx)
	case 3:
		sh.modifyChat(ctx)
	case 9:
		return
	default:
		fmt.Fprintln(sh.out, "Unrecognized choice!")
	}
}

func (sh *Shell) startChat(ctx context.Context) {
	sess := session.MustFromContext(ctx)

	sh.clear()
	sh.title("Start a Chat")
	fmt.Fprintln(sh.out, "1. Group chat")
	fmt.Fprintln(sh.out, "2. Private chat")
	fmt.Fprintln(sh.out, ".................")
	fmt.Fprintln(sh.out, "9. Go back")

	switch sh.readChoice() {
	case 1:
		created, err := sh.chats.CreateGroup(ctx, sess.Login)
		if err != nil {
			sh.fail(err)
			return
		}
		fmt.Fprintf(sh.out, "Group chat %d created!\n", created.ID)
	case 2:
		target := sh.prompt("Who would you like to chat with privately?: ")
		if target == "" {
			return
		}
		created, err := sh.chats.CreatePrivate(ctx, sess.Login, target)
		if err != nil {
			sh.fail(err)
			return
		}
		fmt.Fprintf(sh.out, "Private chat %d with %s is created!\n", created.ID, target)
	case 9:
		return
	default:
		fmt.Fprintln(sh.out, "Unrecognized choice!")
	}
	sh.pause()
}

func (sh *Shell) leaveChat(ctx context.Context) {
	sess := session.MustFromContext(ctx)

	sh.clear()
	sh.showChats(ctx)

	chatID := sh.readID("\nEnter chat room id to leave (blank to go back): ")
	if chatID == 0 {
		return
	}

	if err := sh.chats.LeaveOrDelete(ctx, chatID, sess.Login); err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "Left chat %d\n", chatID)
	sh.pause()
}

func (sh *Shell) modifyChat(ctx context.Context) {
	sess := session.MustFromContext(ctx)

	sh.clear()
	sh.showChats(ctx)

	chatID := sh.readID("\nEnter chat room id to modify (blank to go back): ")
	if chatID == 0 {
		return
	}

	sh.clear()
	fmt.Fprintf(sh.out, "What action would you like to perform on chat %d\n", chatID)
	fmt.Fprintln(sh.out, "----------------------------------------")
	fmt.Fprintln(sh.out, "1. Add a member to the chat")
	fmt.Fprintln(sh.out, "2. Remove a member from the chat")
	fmt.Fprintln(sh.out, "----------------------------------------")
	fmt.Fprintln(sh.out, "9. Go back")

	switch sh.readChoice() {
	case 1:
		target := sh.prompt(fmt.Sprintf("Who to add to chat %d: ", chatID))
		if target == "" {
			return
		}
		if err := sh.chats.AddMember(ctx, chatID, sess.Login, target); err != nil {
			sh.fail(err)
			return
		}
		fmt.Fprintf(sh.out, "Added %s to chat %d\n", target, chatID)
	case 2:
		target := sh.prompt(fmt.Sprintf("Who to remove from chat %d: ", chatID))
		if target == "" {
			return
		}
		if err := sh.chats.RemoveMember(ctx, chatID, sess.Login, target); err != nil {
			sh.fail(err)
			return
		}
		fmt.Fprintf(sh.out, "Removed %s from chat %d\n", target, chatID)
	case 9:
		return
	default:
		fmt.Fprintln(sh.out, "Unrecognized choice!")
	}
	sh.pause()
}

func (sh *Shell) browseChats(ctx context.Context) {
	sh.clear()
	if !sh.showChats(ctx) {
		sh.pause()
		return
	}

	chatID := sh.readID("\nEnter chat room id to view messages (blank to go back): ")
	if chatID == 0 {
		return
	}
	sh.messageMenu(ctx, chatID)
}

// showChats prints every chat the session user belongs to with its member
// list, returning false when there are none.
func (sh *Shell) showChats(ctx context.Context) bool {
	sess := session.MustFromContext(ctx)

	summaries, err := sh.chats.ChatsForUser(ctx, sess.Login)
	if err != nil {
		sh.fail(err)
		return false
	}
	if len(summaries) == 0 {
		fmt.Fprintln(sh.out, "Chat list is empty")
		return false
	}

	for _, s := range summaries {
		fmt.Fprintf(sh.out, "%d\t%s\t%s\n", s.Chat.ID, s.Chat.Kind, strings.Join(s.Members, " "))
	}
	return true
}

func (sh *Shell) messageMenu(ctx context.Context, chatID int64) {
	sess := session.MustFromContext(ctx)
	for {
		if sh.eof {
			return
		}

		sh.clear()
		sh.title(fmt.Sprintf("Messages Menu (chat %d)", chatID))
		fmt.Fprintln(sh.out, "1. View messages")
		fmt.Fprintln(sh.out, "2. Add new message")
		fmt.Fprintln(sh.out, "3. Edit existing message")
		fmt.Fprintln(sh.out, "4. Delete an existing message")
		fmt.Fprintln(sh.out, ".........................")
		fmt.Fprintln(sh.out, "9. Go back to browse chats")

		switch sh.readChoice() {
		case 1:
			sh.viewMessages(ctx, chatID)
		case 2:
			text := sh.prompt("Enter message (blank to go back): ")
			if text == "" {
				continue
			}
			if _, err := sh.messages.Append(ctx, chatID, sess.Login, text); err != nil {
				sh.fail(err)
				continue
			}
			fmt.Fprintln(sh.out, "Message was written successfully")
		case 3:
			msgID := sh.readID("Enter message id to alter (blank to go back): ")
			if msgID == 0 {
				continue
			}
			text := sh.prompt("Enter new message (blank to go back): ")
			if text == "" {
				continue
			}
			if err := sh.messages.Edit(ctx, msgID, sess.Login, text); err != nil {
				sh.fail(err)
				continue
			}
			fmt.Fprintln(sh.out, "Message was successfully altered")
		case 4:
			msgID := sh.readID("Enter message id to remove (blank to go back): ")
			if msgID == 0 {
				continue
			}
			if err := sh.messages.Remove(ctx, msgID, sess.Login); err != nil {
				sh.fail(err)
				continue
			}
			fmt.Fprintln(sh.out, "Message was successfully removed")
		case 9:
			return
		default:
			fmt.Fprintln(sh.out, "Unrecognized choice!")
		}
	}
}

// viewMessages pages through a chat's history ten at a time, asking before
// each next page. An empty page is the authoritative end even when the
// previous one came back full.
func (sh *Shell) viewMessages(ctx context.Context, chatID int64) {
	offset := 0
	for {
		page, hasMore, err := sh.messages.Page(ctx, chatID, offset, 0)
		if err != nil {
			sh.fail(err)
			return
		}

		if len(page) == 0 {
			if offset == 0 {
				fmt.Fprintln(sh.out, "No messages in this chat")
			} else {
				fmt.Fprintln(sh.out, "No more messages")
			}
			sh.pause()
			return
		}

		for _, msg := range page {
			fmt.Fprintf(sh.out, "%d\t%s\t%s\t%s\n",
				msg.ID, msg.CreatedAt.Format("2006-01-02 15:04:05"), msg.Sender, msg.Text)
		}

		if !hasMore {
			sh.pause()
			return
		}

		for {
			if sh.eof {
				return
			}
			answer := sh.prompt("Would you like to view the next page? (y/n): ")
			if answer == "n" {
				return
			}
			if answer == "y" {
				offset += len(page)
				break
			}
			fmt.Fprintln(sh.out, "Input not recognized")
		}
	}
}
