package clockpro

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clockprolabs/clockpro/internal/slab"
)

func newClock(t *testing.T, capacity, testCapacity int) *Clock[string, int] {
	t.Helper()
	return New[string, int](capacity, testCapacity, func(msg string, token int, state slab.State) {
		t.Fatalf("fatal invariant violation: %s (token=%d state=%v)", msg, token, state)
	})
}

func checkInvariants(t *testing.T, c *Clock[string, int]) {
	t.Helper()
	hot, cold, test := c.Counts()
	require.LessOrEqual(t, hot+cold, c.capacity)
	require.LessOrEqual(t, test, c.testCapacity)
	require.Equal(t, hot+cold+test, c.ring.Len())
	require.Equal(t, hot+cold+test, len(c.index))
	require.GreaterOrEqual(t, c.coldTarget, 1)
	require.LessOrEqual(t, c.coldTarget, c.capacity)

	for key, token := range c.index {
		s := c.slots.At(token)
		require.Equal(t, key, s.Key)
		switch s.State.Base() {
		case slab.Hot, slab.Cold:
			require.True(t, s.HasValue)
		case slab.Test:
			require.False(t, s.HasValue)
		}
	}
}

func TestAllColdOnFirstFill(t *testing.T) {
	c := newClock(t, 3, 3)
	require.True(t, c.Insert("A", 1))
	require.True(t, c.Insert("B", 2))
	require.True(t, c.Insert("C", 3))
	checkInvariants(t, c)

	v, ok := c.Get("A")
	require.True(t, ok)
	require.Equal(t, 1, v)
	v, ok = c.Get("B")
	require.True(t, ok)
	require.Equal(t, 2, v)
	v, ok = c.Get("C")
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestFourthInsertEvictsExactlyOneToTest(t *testing.T) {
	c := newClock(t, 3, 3)
	c.Insert("A", 1)
	c.Insert("B", 2)
	c.Insert("C", 3)
	c.Insert("D", 4)
	checkInvariants(t, c)

	hot, cold, _ := c.Counts()
	require.Equal(t, 3, hot+cold)

	residents := 0
	for _, k := range []string{"A", "B", "C", "D"} {
		if c.ContainsKey(k) {
			residents++
		}
	}
	require.Equal(t, 3, residents)
}

func TestReferencedEntrySurvivesScan(t *testing.T) {
	c := newClock(t, 3, 3)
	c.Insert("A", 1)
	c.Get("A")
	c.Get("A")
	c.Insert("B", 2)
	c.Insert("C", 3)
	c.Insert("D", 4)
	c.Insert("E", 5)
	checkInvariants(t, c)

	require.True(t, c.ContainsKey("A"))
}

func TestReinsertAfterTestPromotesToHot(t *testing.T) {
	c := newClock(t, 3, 3)
	c.Insert("A", 1)
	c.Insert("B", 2)
	c.Insert("C", 3)
	c.Insert("D", 4) // B is the first entry hand_cold reaches; unreferenced, demoted to TEST
	checkInvariants(t, c)
	require.False(t, c.ContainsKey("B"))

	coldTargetBefore := c.ColdTarget()
	newlyAdmitted := c.Insert("B", 9)
	checkInvariants(t, c)

	require.False(t, newlyAdmitted)
	v, ok := c.Get("B")
	require.True(t, ok)
	require.Equal(t, 9, v)

	token := c.index["B"]
	require.Equal(t, slab.Hot, c.slots.At(token).State.Base())
	require.GreaterOrEqual(t, c.ColdTarget(), coldTargetBefore)
}

// TestReinsertFromTestIncrementsColdTarget drives enough distinct
// unreferenced keys through the cache that hand_test reclaims a TEST
// entry outright — shrinking cold_target — then re-inserts a key still
// sitting in TEST and confirms the promotion both lands HOT and grows
// cold_target back, exercising the increment branch of insert rule 3
// that a reinsertion against an unshrunk cold_target cannot reach.
func TestReinsertFromTestIncrementsColdTarget(t *testing.T) {
	c := newClock(t, 3, 3)
	for _, k := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		c.Insert(k, 0)
		checkInvariants(t, c)
	}
	require.False(t, c.ContainsKey("C"))
	coldTargetAfterReclaim := c.ColdTarget()

	newlyAdmitted := c.Insert("C", 99)
	checkInvariants(t, c)

	require.False(t, newlyAdmitted)
	v, ok := c.Get("C")
	require.True(t, ok)
	require.Equal(t, 99, v)

	token := c.index["C"]
	require.Equal(t, slab.Hot, c.slots.At(token).State.Base())
	require.Greater(t, c.ColdTarget(), coldTargetAfterReclaim)
}

func TestSoak10000KeysCapacity100(t *testing.T) {
	c := newClock(t, 100, 100)
	for i := 0; i < 10_000; i++ {
		c.Insert("k"+strconv.Itoa(i), i)
		if i%7 == 0 {
			checkInvariants(t, c)
		}
	}
	checkInvariants(t, c)

	hot, cold, test := c.Counts()
	require.Equal(t, 100, hot+cold)
	require.LessOrEqual(t, test, 100)
	require.Equal(t, hot+cold+test, len(c.index))
}
