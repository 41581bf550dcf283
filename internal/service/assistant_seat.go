package service

import (
	"context"
	"errors"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// AssistantSeat 一个课堂同一时间只能有一个在线助教
type AssistantSeat struct {
	members repository.MemberRepository
}

func NewAssistantSeat(members repository.MemberRepository) *AssistantSeat {
	if members == nil {
		panic("MemberRepository cannot be nil for AssistantSeat")
	}
	return &AssistantSeat{members: members}
}

// Current 返回课堂当前在线的助教，没有时返回 nil
func (s *AssistantSeat) Current(ctx context.Context, classID string) (*domain.Member, error) {
	m, err := s.members.FindAssistant(ctx, classID, domain.MemberStatusNormal)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// HasActiveAssistant 是否有除 excludingUserID 以外的在线助教
func (s *AssistantSeat) HasActiveAssistant(ctx context.Context, classID, excludingUserID string) (bool, error) {
	m, err := s.Current(ctx, classID)
	if err != nil || m == nil {
		return false, err
	}
	return m.UserID != excludingUserID, nil
}
