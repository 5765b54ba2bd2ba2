package board

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/kanban/internal/kv"
)

// recordingMedium counts writes and can fail reads.
type recordingMedium struct {
	*kv.Memory

	puts      int
	removes   int
	getErr    error
	removeErr error
}

func newRecordingMedium() *recordingMedium {
	return &recordingMedium{Memory: kv.NewMemory()}
}

func (m *recordingMedium) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}

	return m.Memory.Get(ctx, key)
}

func (m *recordingMedium) Put(ctx context.Context, items ...kv.Item) error {
	m.puts++

	return m.Memory.Put(ctx, items...)
}

func (m *recordingMedium) Remove(ctx context.Context, keys ...string) error {
	m.removes++

	if m.removeErr != nil {
		return m.removeErr
	}

	return m.Memory.Remove(ctx, keys...)
}

func TestPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewPersistence(kv.NewMemory(), nil)

	want := []Ticket{
		{ID: "ticket1", Title: "Fix bug", Priority: PriorityHigh, Stage: StageInProgress},
		{ID: "ticket3", Title: "Ñandú \"quoted\" – dash", Priority: PriorityLow, Stage: StageToDo},
		{ID: "ticket2", Title: "Ship", Priority: PriorityMedium, Stage: StageDone},
	}

	require.NoError(t, p.Save(ctx, want, 4))

	got, next, err := p.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, next)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistenceWireFormat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	medium := kv.NewMemory()
	p := NewPersistence(medium, nil)

	tickets := []Ticket{{ID: "ticket1", Title: "Fix bug", Priority: PriorityHigh, Stage: StageToDo}}
	require.NoError(t, p.Save(ctx, tickets, 2))

	raw, ok, err := medium.Get(ctx, KeyTickets)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"ticket1","titulo":"Fix bug","prioridad":"Alta","columna":"todo"}]`, raw)

	counter, _, _ := medium.Get(ctx, KeyCounter)
	assert.Equal(t, "2", counter)

	require.NoError(t, p.Save(ctx, nil, 2))

	raw, _, _ = medium.Get(ctx, KeyTickets)
	assert.Equal(t, "[]", raw, "an empty board is saved as an empty array")
}

func TestPersistenceSaveLeavesThemeAlone(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	medium := kv.NewMemory()
	require.NoError(t, medium.Put(ctx, kv.Item{Key: KeyTheme, Value: "enabled"}))

	p := NewPersistence(medium, nil)
	require.NoError(t, p.Save(ctx, nil, 1))
	require.NoError(t, p.Erase(ctx, 1))

	theme, ok, err := medium.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "enabled", theme)
}

func TestPersistenceLoadMissingOrMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tickets *string
		counter *string
	}{
		{name: "nothing stored"},
		{name: "tickets not json", tickets: ptr("{oops"), counter: ptr("7")},
		{name: "tickets not an array", tickets: ptr(`{"id":"ticket1"}`), counter: ptr("2")},
		{name: "tickets wrong field types", tickets: ptr(`[{"id":1,"titulo":2}]`)},
		{name: "json null", tickets: ptr("null"), counter: ptr("nope")},
		{name: "counter garbage", counter: ptr("abc")},
		{name: "counter zero", counter: ptr("0")},
		{name: "counter negative", counter: ptr("-4")},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			medium := kv.NewMemory()

			if testCase.tickets != nil {
				require.NoError(t, medium.Put(ctx, kv.Item{Key: KeyTickets, Value: *testCase.tickets}))
			}

			if testCase.counter != nil {
				require.NoError(t, medium.Put(ctx, kv.Item{Key: KeyCounter, Value: *testCase.counter}))
			}

			tickets, next, err := NewPersistence(medium, nil).Load(ctx)
			require.NoError(t, err, "malformed data must not surface as an error")
			assert.Empty(t, tickets)
			assert.Equal(t, 1, next)
		})
	}
}

func TestPersistenceLoadDropsBadRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	medium := kv.NewMemory()

	raw := `[
		{"id":"ticket1","titulo":"ok","prioridad":"Media","columna":"todo"},
		{"id":"ticket2","titulo":"bad stage","prioridad":"Media","columna":"archive"},
		{"id":"ticket3","titulo":"bad prio","prioridad":"Urgente","columna":"todo"},
		{"id":"ticket4","titulo":"   ","prioridad":"Baja","columna":"done"},
		{"id":"","titulo":"no id","prioridad":"Baja","columna":"done"},
		{"id":"ticket1","titulo":"dup","prioridad":"Alta","columna":"done"},
		{"id":"ticket5","titulo":"last","prioridad":"Alta","columna":"done"}
	]`
	require.NoError(t, medium.Put(ctx,
		kv.Item{Key: KeyTickets, Value: raw},
		kv.Item{Key: KeyCounter, Value: "6"},
	))

	tickets, next, err := NewPersistence(medium, nil).Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"ticket1", "ticket5"}, ids(tickets))
	assert.Equal(t, 6, next)
}

func TestPersistenceLoadCounterLeadingDigits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	medium := kv.NewMemory()
	require.NoError(t, medium.Put(ctx, kv.Item{Key: KeyCounter, Value: " 12abc"}))

	_, next, err := NewPersistence(medium, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, next)
}

func TestPersistenceLoadMediumFailure(t *testing.T) {
	t.Parallel()

	medium := newRecordingMedium()
	medium.getErr = errors.New("disk on fire")

	_, _, err := NewPersistence(medium, nil).Load(context.Background())
	require.Error(t, err, "medium failures are not treated as empty state")
}

func TestPersistenceErase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	medium := kv.NewMemory()
	p := NewPersistence(medium, nil)

	require.NoError(t, p.Save(ctx, []Ticket{{ID: "ticket1", Title: "a", Priority: PriorityLow, Stage: StageToDo}}, 2))
	require.NoError(t, p.Erase(ctx, 2))

	_, ok, _ := medium.Get(ctx, KeyTickets)
	assert.False(t, ok, "tickets key removed")

	tickets, next, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets)
	assert.Equal(t, 2, next, "counter survives a clear")
}

func ptr(s string) *string {
	return &s
}
