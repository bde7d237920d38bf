package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"grocery/internal/service"
)

const (
	maxLabelSize = 1 << 10
	maxBodySize  = 4 << 10
)

type addRequest struct {
	Item string `json:"item"`
}

type itemsResponse struct {
	Status  service.Status `json:"status"`
	Message string         `json:"message,omitempty"`
	Items   []service.Item `json:"items"`
	Count   int            `json:"count"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "session": s.sess.ID})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.sess.Store().State())
}

func (s *Server) handleItems(c *gin.Context) {
	store := s.sess.Store()
	st := store.State()
	c.JSON(http.StatusOK, itemsResponse{
		Status:  st.Status,
		Message: st.Message,
		Items:   store.VisibleItems(c.Query("search")),
		Count:   len(st.Items),
	})
}

func (s *Server) handleAdd(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Item) > maxLabelSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "item label too long"})
		return
	}

	s.sess.Store().Add(req.Item)
	c.JSON(http.StatusOK, s.sess.Store().State())
}

func (s *Server) handleToggle(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	s.sess.Store().Toggle(id)
	c.JSON(http.StatusOK, s.sess.Store().State())
}

func (s *Server) handleRemove(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	s.sess.Store().Remove(id)
	c.JSON(http.StatusOK, s.sess.Store().State())
}

// itemID parses the :id parameter, answering 400 when it is not an integer.
func itemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}
