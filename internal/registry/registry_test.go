package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
)

func testNode(id, unit string) *descriptor.Node {
	return &descriptor.Node{
		ID:          id,
		DisplayName: "display " + id,
		Unit:        unit,
		Execute: func(_ context.Context, _ map[string]cty.Value) (map[string]cty.Value, error) {
			return nil, nil
		},
	}
}

func TestAssemble_PreservesLoadOrder(t *testing.T) {
	t.Parallel()

	reg, err := Assemble([]*descriptor.Node{
		testNode("zeta", "unit-z"),
		testNode("alpha", "unit-a"),
		testNode("mid", "unit-m"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, reg.IDs())
	assert.Equal(t, 3, reg.Len())

	node, ok := reg.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "unit-a", node.Unit)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestAssemble_EmptyBundle(t *testing.T) {
	t.Parallel()

	reg, err := Assemble(nil)
	require.NoError(t, err)
	assert.Zero(t, reg.Len())
	assert.Empty(t, reg.IDs())
}

func TestAssemble_CollisionAbortsAssembly(t *testing.T) {
	t.Parallel()

	reg, err := Assemble([]*descriptor.Node{
		testNode("buding_SRT Parser", "unit-a"),
		testNode("buding_SRT Parser", "unit-b"),
	})

	require.Nil(t, reg, "a colliding assembly must publish nothing")
	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "buding_SRT Parser", collision.ID)
	assert.Equal(t, "unit-a", collision.FirstUnit)
	assert.Equal(t, "unit-b", collision.SecondUnit)
	assert.Contains(t, err.Error(), "rename one of them")
}

func TestAssemble_StubCollidesLikeARealNode(t *testing.T) {
	t.Parallel()

	stub := testNode("buding_Video Probe", "unit-stub")
	stub.Stub = true

	_, err := Assemble([]*descriptor.Node{
		testNode("buding_Video Probe", "unit-real"),
		stub,
	})

	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
}

func TestHandle_SwapIsObservedByReaders(t *testing.T) {
	t.Parallel()

	first, err := Assemble([]*descriptor.Node{testNode("a", "unit-a")})
	require.NoError(t, err)
	second, err := Assemble([]*descriptor.Node{testNode("a", "unit-a"), testNode("b", "unit-b")})
	require.NoError(t, err)

	handle := NewHandle(first)
	assert.Equal(t, 1, handle.Current().Len())

	handle.Swap(second)
	assert.Equal(t, 2, handle.Current().Len())
}

func TestHandle_ConcurrentReadersSeeCompleteRegistries(t *testing.T) {
	t.Parallel()

	regs := make([]*Registry, 10)
	for i := range regs {
		nodes := make([]*descriptor.Node, 0, i+1)
		for j := 0; j <= i; j++ {
			id := fmt.Sprintf("node-%d", j)
			nodes = append(nodes, testNode(id, "unit-"+id))
		}
		reg, err := Assemble(nodes)
		require.NoError(t, err)
		regs[i] = reg
	}

	handle := NewHandle(regs[0])

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				reg := handle.Current()
				// A snapshot is internally consistent: every listed id resolves.
				for _, id := range reg.IDs() {
					_, ok := reg.Get(id)
					assert.True(t, ok)
				}
			}
		}()
	}
	for _, reg := range regs {
		handle.Swap(reg)
	}
	wg.Wait()

	assert.Equal(t, regs[len(regs)-1].Len(), handle.Current().Len())
}
