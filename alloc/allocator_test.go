package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocZerosAndAccounts(t *testing.T) {
	a := New(nil, nil)
	buf := a.Alloc(16, "Table")
	assert.Len(t, buf, 16)
	for _, b := range buf {
		assert.Equal(t, byte(0), b)
	}
	assert.EqualValues(t, 16, a.BytesAllocated())
}

func TestFreeAccountsDown(t *testing.T) {
	a := New(nil, nil)
	buf := a.Alloc(16, "Table")
	a.Free(buf)
	assert.EqualValues(t, 0, a.BytesAllocated())
}

func TestReallocPreservesPrefixAndZeroFillsTail(t *testing.T) {
	a := New(nil, nil)
	buf := a.Alloc(4, "Array")
	copy(buf, []byte{1, 2, 3, 4})
	buf = a.Realloc(buf, 8, "Array")
	require.Len(t, buf, 8)
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, buf)
	assert.EqualValues(t, 8, a.BytesAllocated())
}

func TestReallocToZeroFrees(t *testing.T) {
	a := New(nil, nil)
	buf := a.Alloc(4, "Array")
	out := a.Realloc(buf, 0, "Array")
	assert.Nil(t, out)
	assert.EqualValues(t, 0, a.BytesAllocated())
}

func TestPoisonStompsOnFree(t *testing.T) {
	a := New(nil, nil)
	a.SetDebugPoison(true)
	buf := a.Alloc(4, "Array")
	copy(buf, []byte{1, 2, 3, 4})
	a.Free(buf)
	for _, b := range buf {
		assert.Equal(t, byte(poisonByte), b)
	}
}

func TestLeakDetectorReportsByType(t *testing.T) {
	a := New(nil, nil)
	a.SetLeakDetector(true)
	_ = a.Alloc(8, "String")
	_ = a.Alloc(16, "Table")
	report := a.Report()
	assert.EqualValues(t, 24, report.ResidualBytes)
	require.NotNil(t, report.ByType)
	assert.Equal(t, 8, report.ByType["String"])
	assert.Equal(t, 16, report.ByType["Table"])
}

func TestAllocRejectsNonPositiveSize(t *testing.T) {
	a := New(nil, nil)
	assert.Panics(t, func() {
		a.Alloc(0, "")
	})
}

func TestArenaMemFuncRoundTripsAndAccounts(t *testing.T) {
	a := New(NewArenaMemFunc(), nil)
	buf := a.Alloc(4, "Array")
	copy(buf, []byte{1, 2, 3, 4})
	assert.EqualValues(t, 4, a.BytesAllocated())

	buf = a.Realloc(buf, 8, "Array")
	require.Len(t, buf, 8)
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, buf)
	assert.EqualValues(t, 8, a.BytesAllocated())

	a.Free(buf)
	assert.EqualValues(t, 0, a.BytesAllocated())
}

func TestCallbackViolatingContractIsFatal(t *testing.T) {
	a := New(func(_ any, _ []byte, _ int) []byte { return nil }, nil)
	assert.PanicsWithValue(t, &FatalError{Reason: "memory callback returned nil for live request of 4 bytes"}, func() {
		a.Alloc(4, "")
	})
}
