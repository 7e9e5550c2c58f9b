package session

import (
	"fmt"
	"strings"
)

// Every line the server sends to a client is produced here, so the
// client-facing catalogue lives in one place.

const (
	msgNicknamePrompt = "enter a nickname:"
	msgNicknameBlank  = "a nickname cannot be blank."
	msgNicknameTaken  = "that nickname is already in use, pick another one."
	msgUnknownCommand = "unknown command, try again."
	msgNoRooms        = "no rooms have been created yet."
	msgRoomListTitle  = "rooms:"
	msgGoodbye        = "goodbye."
	msgJoinUsage      = "usage: /join <room number>"
	msgJoinNotNumber  = "the room number must be numeric, e.g. /join 1"
	msgWhisperUsage   = "usage: /whisper <nickname> <message>"
)

var lobbyMenu = []string{
	"list rooms : /list",
	"create a room : /create",
	"join a room : /join <room number>",
	"disconnect : /bye",
	"online users : /users",
	"private message : /whisper <nickname> <message>",
}

var roomMenu = []string{
	"commands available inside a room",
	"leave the room : /exit",
	"disconnect : /bye",
	"users in this room : /roomusers",
	"private message : /whisper <nickname> <message>",
}

func msgRoomCreated(id int64) string {
	return fmt.Sprintf("room %d created.", id)
}

func msgRoomDeleted(id int64) string {
	return fmt.Sprintf("room %d deleted.", id)
}

func msgRoomNotFound(id int64) string {
	return fmt.Sprintf("room %d not found.", id)
}

func msgUserNotFound(nick string) string {
	return fmt.Sprintf("user %s not found.", nick)
}

func msgWhisper(from, text string) string {
	return fmt.Sprintf("[whisper] %s : %s", from, text)
}

func msgWhisperSent(to string) string {
	return fmt.Sprintf("[whisper] sent to %s.", to)
}

func msgChat(nick, text string) string {
	return fmt.Sprintf("%s : %s", nick, text)
}

func msgOnlineUsers(names []string) string {
	return fmt.Sprintf("online users: %s (%d)", strings.Join(names, ", "), len(names))
}

func msgRoomUsers(names []string) string {
	return fmt.Sprintf("users in this room: %s (%d)", strings.Join(names, ", "), len(names))
}
