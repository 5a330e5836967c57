package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empathy-client/internal/domain/model"
)

type fakeCreator struct {
	mu     sync.Mutex
	events []model.NotificationEvent
	batch  map[string]int
	fail   map[string]bool
	sleeps *int
}

func newFakeCreator(failing ...string) *fakeCreator {
	f := &fakeCreator{batch: map[string]int{}, fail: map[string]bool{}, sleeps: new(int)}
	for _, id := range failing {
		f.fail[id] = true
	}
	return f
}

func (f *fakeCreator) CreateNotification(_ context.Context, event model.NotificationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	f.batch[event.RecipientID] = *f.sleeps
	if f.fail[event.RecipientID] {
		return fmt.Errorf("backend rejected %s", event.RecipientID)
	}
	return nil
}

func (f *fakeCreator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type fakeDirectory struct {
	users []model.User
	err   error
}

func (f *fakeDirectory) ListUsers(context.Context) ([]model.User, error) {
	return f.users, f.err
}

func newTestDispatcher(creator *fakeCreator, users *fakeDirectory) *Dispatcher {
	d := NewDispatcher(creator, users, nil, Config{BatchSize: 10, BatchPause: time.Millisecond})
	d.sleep = func(ctx context.Context, _ time.Duration) error {
		creator.mu.Lock()
		*creator.sleeps++
		creator.mu.Unlock()
		return ctx.Err()
	}
	return d
}

func usersN(n int) []model.User {
	users := make([]model.User, n)
	for i := range users {
		users[i] = model.User{ID: fmt.Sprintf("u%d", i)}
	}
	return users
}

var ada = model.Actor{ID: "actor", Name: "Ada"}

func TestLike_SelfNotificationSuppressed(t *testing.T) {
	t.Parallel()

	creator := newFakeCreator()
	d := newTestDispatcher(creator, nil)

	result := d.Like(context.Background(), ada, ada.ID, "My post")
	assert.Equal(t, model.FanoutResult{}, result)
	assert.Zero(t, creator.calls())
}

func TestSingleRecipientEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	creator := newFakeCreator()
	d := newTestDispatcher(creator, nil)

	assert.Equal(t, 1, d.Like(ctx, ada, "bob", "Gardening tips").Succeeded)
	assert.Equal(t, 1, d.Comment(ctx, ada, "bob", "Gardening tips", "Great read").Succeeded)
	assert.Equal(t, 1, d.Reply(ctx, ada, "carol", "Agreed").Succeeded)

	assert.Zero(t, d.Comment(ctx, ada, ada.ID, "t", "c").Attempted)
	assert.Zero(t, d.Reply(ctx, ada, ada.ID, "r").Attempted)

	require.Len(t, creator.events, 3)
	assert.Equal(t, model.NotificationEvent{
		RecipientID: "bob",
		Type:        model.EventLike,
		Content:     `Ada liked your post "Gardening tips"`,
	}, creator.events[0])
	assert.Equal(t, model.EventComment, creator.events[1].Type)
	assert.Equal(t, `Ada commented on "Gardening tips": Great read`, creator.events[1].Content)
	assert.Equal(t, model.EventReply, creator.events[2].Type)
	assert.Equal(t, "Ada replied to your comment: Agreed", creator.events[2].Content)
}

func TestSingleRecipientFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	creator := newFakeCreator("bob")
	d := newTestDispatcher(creator, nil)

	result := d.Like(context.Background(), ada, "bob", "Post")
	assert.Equal(t, 1, result.Attempted)
	assert.Zero(t, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "bob", result.Failed[0].RecipientID)
	assert.Error(t, result.Failed[0].Err)
}

func TestReport_SkipsActorAndDuplicates(t *testing.T) {
	t.Parallel()

	creator := newFakeCreator()
	d := newTestDispatcher(creator, nil)

	result := d.Report(context.Background(), ada, []string{"admin1", ada.ID, "admin2", "admin1", ""}, "Bad post", "spam")
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, `Ada reported the post "Bad post": spam`, creator.events[0].Content)
	assert.Equal(t, model.EventReport, creator.events[0].Type)
}

func TestNewPost_BatchedFanout(t *testing.T) {
	t.Parallel()

	// 26 users including the actor: 25 recipients in batches of 10, 10, 5.
	users := append(usersN(25), model.User{ID: ada.ID})
	creator := newFakeCreator("u3", "u17")
	d := newTestDispatcher(creator, &fakeDirectory{users: users})

	result := d.NewPost(context.Background(), ada, "Hello world")

	assert.Equal(t, 25, creator.calls())
	assert.Equal(t, 25, result.Attempted)
	assert.Equal(t, 23, result.Succeeded)
	assert.Len(t, result.Failed, 2)
	assert.Equal(t, 2, *creator.sleeps, "one pause between each pair of batches")

	perBatch := map[int]int{}
	for id, batch := range creator.batch {
		assert.NotEqual(t, ada.ID, id)
		perBatch[batch]++
	}
	assert.Equal(t, map[int]int{0: 10, 1: 10, 2: 5}, perBatch)

	for _, ev := range creator.events {
		assert.Equal(t, model.EventPost, ev.Type)
		assert.Equal(t, `Ada published a new post: "Hello world"`, ev.Content)
	}
}

func TestNewPost_ExactMultipleHasNoTrailingPause(t *testing.T) {
	t.Parallel()

	creator := newFakeCreator()
	d := newTestDispatcher(creator, &fakeDirectory{users: usersN(20)})

	result := d.NewPost(context.Background(), ada, "t")
	assert.Equal(t, 20, result.Succeeded)
	assert.Equal(t, 1, *creator.sleeps)
}

func TestNewPost_UserListFailure(t *testing.T) {
	t.Parallel()

	creator := newFakeCreator()
	d := newTestDispatcher(creator, &fakeDirectory{err: errors.New("users unavailable")})

	result := d.NewPost(context.Background(), ada, "t")
	assert.Equal(t, model.FanoutResult{}, result)
	assert.Zero(t, creator.calls())
}

func TestNewPost_OnlyActor(t *testing.T) {
	t.Parallel()

	creator := newFakeCreator()
	d := newTestDispatcher(creator, &fakeDirectory{users: []model.User{{ID: ada.ID}}})

	assert.Equal(t, model.FanoutResult{}, d.NewPost(context.Background(), ada, "t"))
	assert.Zero(t, creator.calls())
}

func TestFanout_CancelledBetweenBatches(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	creator := newFakeCreator()
	d := newTestDispatcher(creator, &fakeDirectory{users: usersN(15)})
	d.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	result := d.NewPost(ctx, ada, "t")
	assert.Equal(t, 10, creator.calls())
	assert.Equal(t, 15, result.Attempted)
	assert.Equal(t, 10, result.Succeeded)
	require.Len(t, result.Failed, 5)
	assert.ErrorIs(t, result.Failed[0].Err, context.Canceled)
}

func TestBroadcast(t *testing.T) {
	t.Parallel()

	creator := newFakeCreator()
	d := newTestDispatcher(creator, nil)

	long := strings.Repeat("x", 250)
	result := d.Broadcast(context.Background(), ada, []string{"a", "b"}, long)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, model.EventSystem, creator.events[0].Type)
	assert.Equal(t, strings.Repeat("x", 200)+"...", creator.events[0].Content)
}

func TestNewDispatcher_Defaults(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(newFakeCreator(), nil, nil, Config{BatchPause: -time.Second})
	assert.Equal(t, DefaultBatchSize, d.batchSize)
	assert.Zero(t, d.pause)
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	require.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
