package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"esport-events-backend/internal/models"
	"esport-events-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxCommentLength = 2000

type CommentService struct {
	repo *repositories.Repository
	now  Clock
}

func NewCommentService(repo *repositories.Repository) *CommentService {
	return &CommentService{repo: repo, now: time.Now}
}

func (s *CommentService) WithClock(clock Clock) *CommentService {
	s.now = clock
	return s
}

// List returns a page of comments, newest first.
func (s *CommentService) List(actor Actor, eventID uuid.UUID, page, pageSize int) ([]CommentView, int64, int, error) {
	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, 0, 0, fromRepo(err, "event")
	}
	if !actor.CanSeeEvent(event) {
		return nil, 0, 0, notFound("event not found")
	}

	page, pageSize, offset := paginate(page, pageSize)
	comments, total, err := s.repo.CommentRepo.ListCommentsByEvent(event.ID, offset, pageSize)
	if err != nil {
		return nil, 0, 0, internal("failed to list comments", err)
	}

	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, newCommentView(&comments[i]))
	}
	return views, total, totalPages(total, pageSize), nil
}

func (s *CommentService) Post(actor Actor, eventID uuid.UUID, content string) (*CommentView, error) {
	if !actor.Can(models.CapComment) {
		return nil, NewAppError("authentication required", ErrUnauthorized, nil)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("comment cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, invalid("comment is too long")
	}

	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, fromRepo(err, "event")
	}
	if !actor.CanSeeEvent(event) {
		return nil, notFound("event not found")
	}

	author, err := s.repo.UserRepo.GetUserByID(actor.ID)
	if err != nil {
		return nil, fromRepo(err, "user")
	}

	authorID := author.ID
	comment := &models.Comment{
		ID:        uuid.New(),
		EventID:   event.ID,
		AuthorID:  &authorID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.repo.CommentRepo.CreateComment(comment); err != nil {
		return nil, fromRepo(err, "comment")
	}
	comment.Author = author

	view := newCommentView(comment)
	return &view, nil
}

// Delete removes a comment; only its author or an administrator may do so.
func (s *CommentService) Delete(actor Actor, eventID, commentID uuid.UUID) error {
	if !actor.IsAuthenticated() {
		return NewAppError("authentication required", ErrUnauthorized, nil)
	}

	comment, err := s.repo.CommentRepo.GetComment(eventID, commentID)
	if err != nil {
		return fromRepo(err, "comment")
	}
	if !actor.CanDeleteComment(comment) {
		return forbidden("only the author or an administrator can delete this comment")
	}

	if err := s.repo.CommentRepo.DeleteComment(comment.ID); err != nil {
		return fromRepo(err, "comment")
	}

	logrus.WithFields(logrus.Fields{
		"comment_id": comment.ID,
		"event_id":   eventID,
		"by":         actor.ID,
	}).Info("comment deleted")
	return nil
}
