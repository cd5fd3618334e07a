package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// CreateProject stores p owned by caller.
func (s *Service) CreateProject(ctx context.Context, caller string, p types.Project) (*types.Project, error) {
	p.OwnerID = caller
	err := s.store.Update(ctx, func(sess types.Session) error {
		return sess.CreateProject(ctx, &p)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"id": p.ProjectID, "owner": caller}).Info("project created")
	return &p, nil
}

// GetProject returns the caller's project.
func (s *Service) GetProject(ctx context.Context, caller, projectID string) (*types.Project, error) {
	var p *types.Project
	err := s.store.View(ctx, func(sess types.Session) error {
		var err error
		p, err = ownedProject(ctx, sess, caller, projectID)
		return err
	})
	return p, err
}

// ListProjects returns the caller's projects, oldest first.
func (s *Service) ListProjects(ctx context.Context, caller string) ([]*types.Project, error) {
	var list []*types.Project
	err := s.store.View(ctx, func(sess types.Session) error {
		var err error
		list, err = sess.ListProjects(ctx, caller)
		return err
	})
	return list, err
}

// UpdateProject applies edit to the caller's project.
func (s *Service) UpdateProject(ctx context.Context, caller, projectID string, edit types.ProjectEdit) (*types.Project, error) {
	var p *types.Project
	err := s.store.Update(ctx, func(sess types.Session) error {
		var err error
		if p, err = ownedProject(ctx, sess, caller, projectID); err != nil {
			return err
		}
		if err := edit.Apply(p); err != nil {
			return err
		}
		return sess.UpdateProject(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject removes the caller's project with its boards, columns and
// tasks.
func (s *Service) DeleteProject(ctx context.Context, caller, projectID string) error {
	err := s.store.Update(ctx, func(sess types.Session) error {
		if _, err := ownedProject(ctx, sess, caller, projectID); err != nil {
			return err
		}
		return sess.DeleteProject(ctx, projectID)
	})
	if err != nil {
		return err
	}
	s.log.WithField("id", projectID).Info("project deleted")
	return nil
}

// CreateBoard stores a board in the caller's project.
func (s *Service) CreateBoard(ctx context.Context, caller string, b types.Board) (*types.Board, error) {
	err := s.store.Update(ctx, func(sess types.Session) error {
		if _, err := ownedProject(ctx, sess, caller, b.ProjectID); err != nil {
			return err
		}
		return sess.CreateBoard(ctx, &b)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"id": b.BoardID, "project": b.ProjectID}).Info("board created")
	return &b, nil
}

// GetBoard returns a board in one of the caller's projects.
func (s *Service) GetBoard(ctx context.Context, caller, boardID string) (*types.Board, error) {
	var b *types.Board
	err := s.store.View(ctx, func(sess types.Session) error {
		var err error
		b, err = ownedBoard(ctx, sess, caller, boardID)
		return err
	})
	return b, err
}

// ListBoards returns the boards of the caller's project, oldest first.
func (s *Service) ListBoards(ctx context.Context, caller, projectID string) ([]*types.Board, error) {
	var list []*types.Board
	err := s.store.View(ctx, func(sess types.Session) error {
		if _, err := ownedProject(ctx, sess, caller, projectID); err != nil {
			return err
		}
		var err error
		list, err = sess.ListBoards(ctx, projectID)
		return err
	})
	return list, err
}

// DeleteBoard removes a board with its columns and tasks.
func (s *Service) DeleteBoard(ctx context.Context, caller, boardID string) error {
	err := s.store.Update(ctx, func(sess types.Session) error {
		if _, err := ownedBoard(ctx, sess, caller, boardID); err != nil {
			return err
		}
		return sess.DeleteBoard(ctx, boardID)
	})
	if err != nil {
		return err
	}
	s.log.WithField("id", boardID).Info("board deleted")
	return nil
}

func ownedProject(ctx context.Context, sess types.Session, caller, projectID string) (*types.Project, error) {
	p, err := sess.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != caller {
		return nil, fmt.Errorf("project %s: %w", projectID, types.ErrNotFound)
	}
	return p, nil
}

func ownedBoard(ctx context.Context, sess types.Session, caller, boardID string) (*types.Board, error) {
	b, err := sess.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, sess, caller, b.ProjectID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("board %s: %w", boardID, types.ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}
