package session

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/linechat/linechat-server/internal/core"
)

// LineReader is the read side of one connected client. A read error of
// any kind means the client is gone.
type LineReader interface {
	ReadLine() (string, error)
}

type state int

const (
	stateAuthenticating state = iota
	stateLobby
	stateInRoom
	stateTerminated
)

// Session drives one connection through its lifecycle: pick a unique
// nickname, then dispatch lobby or room commands until the client quits
// or the transport fails. All shared state lives in the registry and the
// directory; sessions never touch each other directly.
type Session struct {
	registry  *core.Registry
	directory *core.Directory
	ch        core.Channel
	in        LineReader
	log       zerolog.Logger

	nick  string
	state state
	room  *core.Room // non-nil exactly while in stateInRoom
}

// New builds a session for one connection. ch and in usually wrap the
// same underlying conn.
func New(registry *core.Registry, directory *core.Directory, ch core.Channel, in LineReader, logger zerolog.Logger) *Session {
	return &Session{
		registry:  registry,
		directory: directory,
		ch:        ch,
		in:        in,
		log:       logger,
	}
}

// Run blocks until the session terminates. Whatever the exit path, the
// nickname is unregistered and any room membership is cleaned up before
// Run returns.
func (s *Session) Run() {
	defer s.cleanup()

	if err := s.authenticate(); err != nil {
		return
	}
	s.log = s.log.With().Str("nick", s.nick).Logger()
	s.log.Info().Msg("nickname accepted")
	s.sendLines(lobbyMenu)

	for s.state != stateTerminated {
		line, err := s.in.ReadLine()
		if err != nil {
			// Transport failure is an implicit disconnect.
			return
		}
		switch s.state {
		case stateLobby:
			s.handleLobby(line)
		case stateInRoom:
			s.handleRoom(line)
		}
	}
}

// authenticate loops until the client supplies a non-blank nickname that
// the registry accepts. A rejected candidate re-prompts, never
// disconnects.
func (s *Session) authenticate() error {
	s.send(msgNicknamePrompt)
	for {
		line, err := s.in.ReadLine()
		if err != nil {
			return err
		}
		nick := strings.TrimSpace(line)
		if nick == "" {
			s.send(msgNicknameBlank)
			continue
		}
		if err := s.registry.Register(nick, s.ch); err != nil {
			s.send(msgNicknameTaken)
			s.send(msgNicknamePrompt)
			continue
		}
		s.nick = nick
		s.state = stateLobby
		return nil
	}
}

func (s *Session) handleLobby(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		s.send(msgUnknownCommand)
		return
	}
	switch fields[0] {
	case "/list":
		s.cmdList()
	case "/create":
		s.cmdCreate()
	case "/join":
		s.cmdJoin(fields)
	case "/users":
		s.cmdUsers()
	case "/whisper":
		s.cmdWhisper(fields)
	case "/bye":
		s.quit()
	default:
		s.send(msgUnknownCommand)
	}
}

func (s *Session) handleRoom(line string) {
	fields := strings.Fields(line)
	if len(fields) > 0 && fields[0] == "/whisper" {
		s.cmdWhisper(fields)
		return
	}
	switch line {
	case "/exit":
		s.exitRoom()
	case "/roomusers":
		s.send(msgRoomUsers(s.room.MemberNames()))
	case "/bye":
		s.quit()
	default:
		s.room.BroadcastExcluding(s.nick, msgChat(s.nick, line))
	}
}

func (s *Session) cmdList() {
	ids := s.directory.ListIDs()
	if len(ids) == 0 {
		s.send(msgNoRooms)
		return
	}
	s.send(msgRoomListTitle)
	for _, id := range ids {
		s.send(strconv.FormatInt(id, 10))
	}
}

func (s *Session) cmdCreate() {
	room := s.directory.Create()
	s.send(msgRoomCreated(room.ID))
	s.enterRoom(room)
}

func (s *Session) cmdJoin(args []string) {
	if len(args) < 2 {
		s.send(msgJoinUsage)
		return
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		s.send(msgJoinNotNumber)
		return
	}
	room, err := s.directory.Get(id)
	if err != nil {
		s.send(msgRoomNotFound(id))
		return
	}
	s.enterRoom(room)
}

func (s *Session) cmdUsers() {
	s.send(msgOnlineUsers(s.registry.Nicknames()))
}

func (s *Session) cmdWhisper(args []string) {
	if len(args) < 3 {
		s.send(msgWhisperUsage)
		return
	}
	target := args[1]
	text := strings.Join(args[2:], " ")

	ch, err := s.registry.Lookup(target)
	if err != nil {
		s.send(msgUserNotFound(target))
		return
	}
	if err := ch.SendLine(msgWhisper(s.nick, text)); err != nil {
		// The target's channel died; its session will unregister it.
		s.send(msgUserNotFound(target))
		return
	}
	s.send(msgWhisperSent(target))
}

func (s *Session) enterRoom(room *core.Room) {
	// The room can be deleted between the directory lookup and the join.
	if err := room.Join(s.nick, s.ch); err != nil {
		s.send(msgRoomNotFound(room.ID))
		return
	}
	s.room = room
	s.state = stateInRoom
	s.sendLines(roomMenu)
	s.log.Info().Int64("room", room.ID).Msg("joined room")
}

func (s *Session) exitRoom() {
	room := s.room
	s.room = nil
	s.state = stateLobby
	if room.Leave(s.nick, s.ch) {
		s.directory.Delete(room.ID)
		s.send(msgRoomDeleted(room.ID))
	}
	s.sendLines(lobbyMenu)
	s.log.Info().Int64("room", room.ID).Msg("left room")
}

func (s *Session) quit() {
	s.send(msgGoodbye)
	s.state = stateTerminated
}

// cleanup runs once, whatever drove the session down: explicit /bye, a
// read error, or a failed write. Leaving the room comes first so the
// leave notice still reaches the remaining members.
func (s *Session) cleanup() {
	if s.room != nil {
		if s.room.Leave(s.nick, s.ch) {
			s.directory.Delete(s.room.ID)
		}
		s.room = nil
	}
	if s.nick != "" {
		s.registry.Unregister(s.nick)
	}
	s.state = stateTerminated
	_ = s.ch.Close()
	s.log.Info().Msg("session closed")
}

// send writes one line to this session's own client. A failed write
// terminates the session on the next loop iteration.
func (s *Session) send(line string) {
	if err := s.ch.SendLine(line); err != nil {
		s.state = stateTerminated
	}
}

func (s *Session) sendLines(lines []string) {
	for _, line := range lines {
		s.send(line)
	}
}
