package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/linechat/linechat-server/internal/core"
)

type roomView struct {
	ID      int64 `json:"id"`
	Members int   `json:"members"`
}

type roomsResponse struct {
	Rooms []roomView `json:"rooms"`
}

type usersResponse struct {
	Users []string `json:"users"`
	Count int      `json:"count"`
}

// listRoomsHandler reports the live rooms and their member counts, in
// creation order.
func listRoomsHandler(directory *core.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := directory.Snapshot()
		out := roomsResponse{Rooms: make([]roomView, 0, len(infos))}
		for _, info := range infos {
			out.Rooms = append(out.Rooms, roomView{ID: info.ID, Members: info.Members})
		}
		c.JSON(stdhttp.StatusOK, out)
	}
}

// listUsersHandler reports the currently registered nicknames.
func listUsersHandler(registry *core.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		names := registry.Nicknames()
		c.JSON(stdhttp.StatusOK, usersResponse{Users: names, Count: len(names)})
	}
}
