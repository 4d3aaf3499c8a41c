package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"theend-page-api/internal/domain"
	"theend-page-api/internal/repo"
)

func newTestPageService() *PageService {
	return NewPageService(repo.NewMemoryPageRepo(), nil)
}

func TestPageCreate(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	p, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "My Exit", Message: "so long", Tone: "dramatic"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "my-exit", p.Slug)
	assert.Equal(t, "owner-1", p.OwnerID)
	assert.EqualValues(t, 0, p.ViewCount)
	assert.EqualValues(t, 0, p.VoteCount)
}

func TestPageCreateValidation(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	_, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "  ", Message: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.Create(ctx, "owner-1", CreatePageInput{Title: "t", Message: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// 同一作者同名拒绝；不同作者撞标题自动追加数字后缀
func TestPageCreateSlugCollision(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	_, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "My Exit", Message: "a"})
	require.NoError(t, err)

	_, err = s.Create(ctx, "owner-1", CreatePageInput{Title: "My Exit", Message: "b"})
	assert.ErrorIs(t, err, domain.ErrTitleTaken)

	p2, err := s.Create(ctx, "owner-2", CreatePageInput{Title: "My Exit", Message: "b"})
	require.NoError(t, err)
	assert.Equal(t, "my-exit-1", p2.Slug)

	p3, err := s.Create(ctx, "owner-3", CreatePageInput{Title: "My Exit", Message: "c"})
	require.NoError(t, err)
	assert.Equal(t, "my-exit-2", p3.Slug)
}

func TestPageCreateEmptySlugFallback(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	p, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "!!!", Message: "m"})
	require.NoError(t, err)
	assert.Equal(t, "page", p.Slug)
}

func TestPageOwnershipScope(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	p, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "Mine", Message: "m"})
	require.NoError(t, err)

	// 他人访问与不存在一视同仁
	_, err = s.GetOwned(ctx, "owner-2", p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Update(ctx, "owner-2", p.ID, UpdatePageInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "owner-2", p.ID), domain.ErrNotFound)

	got, err := s.GetOwned(ctx, "owner-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestPageUpdatePartial(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	p, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "Old Title", Message: "m", Tone: "calm"})
	require.NoError(t, err)

	tone := "dramatic"
	got, err := s.Update(ctx, "owner-1", p.ID, UpdatePageInput{Tone: &tone})
	require.NoError(t, err)
	assert.Equal(t, "dramatic", got.Tone)
	assert.Equal(t, "Old Title", got.Title) // 未提交的字段不动
	assert.Equal(t, "old-title", got.Slug)

	title := "New Title"
	got, err = s.Update(ctx, "owner-1", p.ID, UpdatePageInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "new-title", got.Slug) // 改标题重派生 slug

	empty := " "
	_, err = s.Update(ctx, "owner-1", p.ID, UpdatePageInput{Message: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// 新标题派生回自己当前的 slug 时，不得误判占用追加后缀，公开 URL 保持稳定
func TestPageUpdateRetitleKeepsOwnSlug(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	p1, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "My Exit", Message: "m"})
	require.NoError(t, err)
	require.Equal(t, "my-exit", p1.Slug)

	title := "My Exit!"
	got, err := s.Update(ctx, "owner-1", p1.ID, UpdatePageInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "My Exit!", got.Title)
	assert.Equal(t, "my-exit", got.Slug)

	// 自己的 slug 在后缀链中段同样排除
	p2, err := s.Create(ctx, "owner-2", CreatePageInput{Title: "My Exit", Message: "m"})
	require.NoError(t, err)
	require.Equal(t, "my-exit-1", p2.Slug)

	title2 := "My Exit?"
	got2, err := s.Update(ctx, "owner-2", p2.ID, UpdatePageInput{Title: &title2})
	require.NoError(t, err)
	assert.Equal(t, "my-exit-1", got2.Slug)
}

// 页面更新与公开读/投票并发时，计数增量不得被旧快照覆盖
func TestPageUpdateKeepsCounters(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	p, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "Busy", Message: "m", Published: true})
	require.NoError(t, err)

	_, err = s.GetPublic(ctx, p.Slug)
	require.NoError(t, err)
	_, err = s.Vote(ctx, p.Slug)
	require.NoError(t, err)

	tone := "calm"
	_, err = s.Update(ctx, "owner-1", p.ID, UpdatePageInput{Tone: &tone})
	require.NoError(t, err)

	got, err := s.GetPublic(ctx, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ViewCount) // 本次读也 +1
	assert.EqualValues(t, 1, got.VoteCount)
}

func TestPageDeleteThenGone(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	p, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "Bye", Message: "m", Published: true})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "owner-1", p.ID))
	_, err = s.GetOwned(ctx, "owner-1", p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetPublic(ctx, p.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetPublicCountsViews(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	p, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "Seen", Message: "m", Published: true})
	require.NoError(t, err)

	got, err := s.GetPublic(ctx, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.ViewCount)

	got, err = s.GetPublic(ctx, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ViewCount)

	_, err = s.GetPublic(ctx, "no-such-slug")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// N 个并发公开读后 view_count == N，增量一个不丢
func TestGetPublicConcurrent(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	p, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "Hot", Message: "m", Published: true})
	require.NoError(t, err)

	const n = 64
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, e := s.GetPublic(ctx, p.Slug)
			assert.NoError(t, e)
		}()
		go func() {
			defer wg.Done()
			_, e := s.Vote(ctx, p.Slug)
			assert.NoError(t, e)
		}()
	}
	wg.Wait()

	got, err := s.GetPublic(ctx, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, n+1, got.ViewCount)
	assert.EqualValues(t, n, got.VoteCount)
}

func TestVote(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	p, err := s.Create(ctx, "owner-1", CreatePageInput{Title: "Voted", Message: "m", Published: true})
	require.NoError(t, err)

	n, err := s.Vote(ctx, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = s.Vote(ctx, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = s.Vote(ctx, "no-such-slug")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHallOfFame(t *testing.T) {
	s := newTestPageService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		p, err := s.Create(ctx, "owner-1", CreatePageInput{
			Title:     fmt.Sprintf("Page %d", i),
			Message:   "m",
			Published: i != 4, // 最后一个不发布，不该上榜
		})
		require.NoError(t, err)
		for v := 0; v < i; v++ {
			_, err = s.Vote(ctx, p.Slug)
			require.NoError(t, err)
		}
	}

	top, err := s.HallOfFame(ctx, 0) // 默认 10
	require.NoError(t, err)
	require.Len(t, top, 4)
	assert.Equal(t, "page-3", top[0].Slug)
	assert.EqualValues(t, 3, top[0].VoteCount)

	top, err = s.HallOfFame(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "page-3", top[0].Slug)
	assert.Equal(t, "page-2", top[1].Slug)
}
