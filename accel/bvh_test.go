package accel

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/Jianli-Huang/GAMES101/types"
	"github.com/google/go-cmp/cmp"
)

// A solid axis-aligned box used as a test primitive. Its intersection routine
// uses the same slab arithmetic as Bounds3.IntersectP so that results can be
// compared exactly against the brute-force List.
type testBox struct {
	Min types.Vec3
	Max types.Vec3
}

func newTestBox(center types.Vec3, halfExtent float32) *testBox {
	ext := types.XYZ(halfExtent, halfExtent, halfExtent)
	return &testBox{Min: center.Sub(ext), Max: center.Add(ext)}
}

func (b *testBox) Bounds() Bounds3 {
	return Bounds3{Min: b.Min, Max: b.Max}
}

func (b *testBox) Intersect(r *Ray) Intersection {
	tEnter := float32(math.Inf(-1))
	tExit := float32(math.Inf(1))
	for axis := 0; axis < 3; axis++ {
		t0 := (b.Min[axis] - r.Origin[axis]) * r.InvDir[axis]
		t1 := (b.Max[axis] - r.Origin[axis]) * r.InvDir[axis]
		if r.DirIsNeg[axis] {
			t0, t1 = t1, t0
		}
		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
	}

	if tEnter > tExit {
		return NoHit()
	}
	dist := tEnter
	if !r.InRange(dist) {
		dist = tExit
		if !r.InRange(dist) {
			return NoHit()
		}
	}
	return Intersection{Happened: true, Distance: dist, Coords: r.At(dist), Object: b}
}

func init() {
	gob.Register(&testBox{})
}

func randomBoxes(rng *rand.Rand, count int) []Object {
	objects := make([]Object, count)
	for i := range objects {
		center := types.XYZ(
			rng.Float32()*100-50,
			rng.Float32()*100-50,
			rng.Float32()*100-50,
		)
		objects[i] = newTestBox(center, 0.1+rng.Float32()*2)
	}
	return objects
}

func randomRay(rng *rand.Rand) Ray {
	origin := types.XYZ(rng.Float32()*160-80, rng.Float32()*160-80, rng.Float32()*160-80)
	target := types.XYZ(rng.Float32()*100-50, rng.Float32()*100-50, rng.Float32()*100-50)
	return NewRay(origin, target.Sub(origin))
}

// Walk the tree and verify its structural invariants. Returns the number of
// times each object was referenced by a leaf.
func checkTree(t *testing.T, accel *BVHAccel) map[Object]int {
	refs := make(map[Object]int)
	nodes := accel.Nodes()

	var walk func(index uint32) Bounds3
	walk = func(index uint32) Bounds3 {
		node := &nodes[index]
		if node.IsLeaf() {
			first, count := node.Primitives()
			if count != 1 {
				t.Fatalf("expected leaf %d to hold 1 primitive; got %d", index, count)
			}
			obj := accel.Objects()[first]
			refs[obj]++
			if node.Bounds != obj.Bounds() {
				t.Fatalf("expected leaf %d bounds %v; got %v", index, obj.Bounds(), node.Bounds)
			}
			return node.Bounds
		}

		left, right := node.ChildNodes()
		if left <= index || right <= index {
			t.Fatalf("expected children of node %d to follow it; got %d, %d", index, left, right)
		}
		union := Union(walk(left), walk(right))
		if node.Bounds != union {
			t.Fatalf("expected node %d bounds to equal the union of its children %v; got %v", index, union, node.Bounds)
		}
		return node.Bounds
	}

	if len(nodes) > 0 {
		walk(0)
	}
	return refs
}

func TestEmptyAccel(t *testing.T) {
	accel := New(nil, DefaultOptions())

	r := NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0))
	isect := accel.Intersect(&r)
	if isect.Happened || !math.IsInf(float64(isect.Distance), 1) {
		t.Fatalf("expected no hit for an empty tree; got %+v", isect)
	}
	if accel.Len() != 0 || len(accel.Nodes()) != 0 {
		t.Fatalf("expected empty tree; got %d nodes", len(accel.Nodes()))
	}
	if !accel.Bounds().IsEmpty() {
		t.Fatalf("expected empty bounds; got %v", accel.Bounds())
	}
}

func TestSingleObjectResultIsVerbatim(t *testing.T) {
	box := newTestBox(types.XYZ(0, 0, 0), 1)
	accel := New([]Object{box}, DefaultOptions())

	if len(accel.Nodes()) != 1 || !accel.Nodes()[0].IsLeaf() {
		t.Fatalf("expected a single leaf; got %+v", accel.Nodes())
	}

	r := NewRay(types.XYZ(0, 0, -10), types.XYZ(0, 0, 1))
	exp := box.Intersect(&r)
	got := accel.Intersect(&r)
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatalf("expected the primitive's own result (-want +got):\n%s", diff)
	}
	if got.Object != box || got.Distance != 9 {
		t.Fatalf("expected hit at distance 9; got %+v", got)
	}
}

func TestThreeBoxScene(t *testing.T) {
	boxes := []*testBox{
		newTestBox(types.XYZ(0, 0, 0), 0.5),
		newTestBox(types.XYZ(10, 0, 0), 0.5),
		newTestBox(types.XYZ(20, 0, 0), 0.5),
	}

	for _, method := range []SplitMethod{SplitSAH, SplitMiddle} {
		accel := New([]Object{boxes[2], boxes[0], boxes[1]}, Options{SplitMethod: method})

		r := NewRay(types.XYZ(-5, 0, 0), types.XYZ(1, 0, 0))
		isect := accel.Intersect(&r)
		if !isect.Happened {
			t.Fatalf("[%s] expected a hit", method)
		}
		if isect.Object != boxes[0] {
			t.Fatalf("[%s] expected first box to be hit; got %+v", method, isect.Object)
		}
		if math.Abs(float64(isect.Distance-4.5)) > 1e-5 {
			t.Fatalf("[%s] expected hit distance 4.5; got %f", method, isect.Distance)
		}
	}
}

func TestTwoObjects(t *testing.T) {
	a := newTestBox(types.XYZ(0, 0, 0), 1)
	b := newTestBox(types.XYZ(5, 0, 0), 1)
	accel := New([]Object{a, b}, DefaultOptions())

	nodes := accel.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes; got %d", len(nodes))
	}
	if nodes[0].IsLeaf() || !nodes[1].IsLeaf() || !nodes[2].IsLeaf() {
		t.Fatal("expected an internal root with two leafs")
	}
	if nodes[0].Bounds != Union(a.Bounds(), b.Bounds()) {
		t.Fatalf("unexpected root bounds %v", nodes[0].Bounds)
	}

	r := NewRay(types.XYZ(10, 0, 0), types.XYZ(-1, 0, 0))
	if isect := accel.Intersect(&r); isect.Object != b || isect.Distance != 4 {
		t.Fatalf("expected to hit second box at distance 4; got %+v", isect)
	}
}

func TestTreeStructure(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, count := range []int{1, 2, 3, 4, 5, 12, 13, 100, 1000} {
		for _, method := range []SplitMethod{SplitSAH, SplitMiddle} {
			objects := randomBoxes(rng, count)
			accel := New(objects, Options{SplitMethod: method})

			if expNodes := 2*count - 1; len(accel.Nodes()) != expNodes {
				t.Fatalf("[%s/%d] expected %d nodes; got %d", method, count, expNodes, len(accel.Nodes()))
			}

			refs := checkTree(t, accel)
			if len(refs) != count {
				t.Fatalf("[%s/%d] expected %d referenced objects; got %d", method, count, count, len(refs))
			}
			for _, obj := range objects {
				if refs[obj] != 1 {
					t.Fatalf("[%s/%d] expected object to be referenced once; got %d", method, count, refs[obj])
				}
			}

			stats := accel.Stats()
			if stats.Leafs != count || stats.Nodes != count-1 || stats.Primitives != count {
				t.Fatalf("[%s/%d] unexpected stats %+v", method, count, stats)
			}
		}
	}
}

func TestIntersectMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, count := range []int{1, 2, 3, 4, 5, 17, 100, 1000} {
		for _, method := range []SplitMethod{SplitSAH, SplitMiddle} {
			objects := randomBoxes(rng, count)
			accel := New(objects, Options{SplitMethod: method})
			oracle := List(objects)

			for i := 0; i < 300; i++ {
				r := randomRay(rng)
				exp := oracle.Intersect(&r)
				got := accel.Intersect(&r)
				if exp.Happened != got.Happened || exp.Distance != got.Distance {
					t.Fatalf("[%s/%d] ray %d: expected hit=%t at %f; got hit=%t at %f",
						method, count, i, exp.Happened, exp.Distance, got.Happened, got.Distance)
				}
			}
		}
	}
}

func TestIdenticalCentroidsTerminate(t *testing.T) {
	objects := make([]Object, 50)
	for i := range objects {
		objects[i] = newTestBox(types.XYZ(1, 2, 3), 0.5)
	}

	accel := New(objects, DefaultOptions())
	checkTree(t, accel)

	if depth := accel.Stats().MaxDepth; depth > len(objects) {
		t.Fatalf("expected depth <= %d; got %d", len(objects), depth)
	}

	r := NewRay(types.XYZ(1, 2, -10), types.XYZ(0, 0, 1))
	if isect := accel.Intersect(&r); !isect.Happened || isect.Distance != 12.5 {
		t.Fatalf("expected hit at distance 12.5; got %+v", isect)
	}
}

func TestDegenerateBounds(t *testing.T) {
	// Point-like objects give the root a zero surface area.
	points := make([]Object, 10)
	for i := range points {
		points[i] = newTestBox(types.XYZ(0, 0, 0), 0)
	}
	accel := New(points, DefaultOptions())
	checkTree(t, accel)
	if accel.Stats().SAHCost != 0 {
		t.Fatalf("expected zero tree cost for a flat root; got %f", accel.Stats().SAHCost)
	}

	// Flat objects mixed with regular ones.
	objects := []Object{
		&testBox{Min: types.XYZ(-1, -1, 0), Max: types.XYZ(1, 1, 0)},
		&testBox{Min: types.XYZ(2, -1, 0), Max: types.XYZ(4, 1, 0)},
		&testBox{Min: types.XYZ(5, 5, 5), Max: types.XYZ(5, 5, 5)},
		newTestBox(types.XYZ(0, 0, 10), 1),
		newTestBox(types.XYZ(3, 0, 10), 1),
		newTestBox(types.XYZ(6, 0, 10), 1),
	}
	accel = New(objects, DefaultOptions())
	checkTree(t, accel)

	r := NewRay(types.XYZ(6, 0, 20), types.XYZ(0, 0, -1))
	isect := accel.Intersect(&r)
	if isect.Object != objects[5] || isect.Distance != 9 {
		t.Fatalf("expected to hit the last box at distance 9; got %+v", isect)
	}

	r = NewRay(types.XYZ(3, 0, 5), types.XYZ(0, 0, -1))
	isect = accel.Intersect(&r)
	if isect.Object != objects[1] || isect.Distance != 5 {
		t.Fatalf("expected to hit the flat box at distance 5; got %+v", isect)
	}
}

func TestHugeBounds(t *testing.T) {
	// Surface areas of these boxes overflow float32.
	for _, count := range []int{2, 3, 4, 7} {
		objects := make([]Object, count)
		for i := range objects {
			objects[i] = newTestBox(types.XYZ(float32(i-1)*1e20, 0, 0), 1e20)
		}

		accel := New(objects, DefaultOptions())
		refs := checkTree(t, accel)
		for i, obj := range objects {
			if refs[obj] != 1 {
				t.Fatalf("[count %d] expected object %d to be referenced once; got %d", count, i, refs[obj])
			}
		}

		cost := accel.Stats().SAHCost
		if math.IsNaN(float64(cost)) || math.IsInf(float64(cost), 0) {
			t.Fatalf("[count %d] expected a finite tree cost; got %f", count, cost)
		}

		r := NewRay(types.XYZ(5e19, 0, 1e21), types.XYZ(0, 0, -1))
		isect := accel.Intersect(&r)
		exp := List(objects).Intersect(&r)
		if !isect.Happened || isect.Object == nil || isect.Distance != exp.Distance {
			t.Fatalf("[count %d] expected a hit at distance %g; got %+v", count, exp.Distance, isect)
		}
	}
}

func TestParallelBuildMatchesSequential(t *testing.T) {
	defer func(threshold int) { parallelAxisItems = threshold }(parallelAxisItems)
	objects := randomBoxes(rand.New(rand.NewSource(3)), 2000)

	parallelAxisItems = math.MaxInt32
	sequential := New(objects, DefaultOptions())

	parallelAxisItems = smallNodeItems + 1
	parallel := New(objects, DefaultOptions())

	if !cmp.Equal(sequential.Nodes(), parallel.Nodes()) {
		t.Fatal("expected the parallel build to produce the sequential tree")
	}
	checkTree(t, parallel)
}

func TestConcurrentQueries(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	objects := randomBoxes(rng, 500)
	accel := New(objects, DefaultOptions())
	oracle := List(objects)

	rays := make([]Ray, 400)
	for i := range rays {
		rays[i] = randomRay(rng)
	}

	var wg sync.WaitGroup
	errCh := make(chan int, len(rays))
	for worker := 0; worker < 4; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := worker; i < len(rays); i += 4 {
				if accel.Intersect(&rays[i]).Distance != oracle.Intersect(&rays[i]).Distance {
					errCh <- i
				}
			}
		}(worker)
	}
	wg.Wait()
	close(errCh)

	for i := range errCh {
		t.Fatalf("ray %d: concurrent query result mismatch", i)
	}
}

func TestOptionsNormalization(t *testing.T) {
	specs := []struct {
		in, exp int
	}{
		{0, 1},
		{-3, 1},
		{4, 4},
		{1000, maxPrimsInNodeLimit},
	}

	for index, s := range specs {
		accel := New(nil, Options{MaxPrimsInNode: s.in})
		if got := accel.Options().MaxPrimsInNode; got != s.exp {
			t.Fatalf("[spec %d] expected MaxPrimsInNode %d; got %d", index, s.exp, got)
		}
	}
}

func TestParseSplitMethod(t *testing.T) {
	specs := []struct {
		in  string
		exp SplitMethod
	}{
		{"sah", SplitSAH},
		{"SAH", SplitSAH},
		{"", SplitSAH},
		{"middle", SplitMiddle},
		{"median", SplitMiddle},
	}
	for index, s := range specs {
		got, err := ParseSplitMethod(s.in)
		if err != nil || got != s.exp {
			t.Fatalf("[spec %d] expected %s; got %s (err: %v)", index, s.exp, got, err)
		}
	}

	if _, err := ParseSplitMethod("octree"); !errors.Is(err, ErrUnknownSplitMethod) {
		t.Fatalf("expected ErrUnknownSplitMethod; got %v", err)
	}
}

func TestRestore(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	src := New(randomBoxes(rng, 64), DefaultOptions())

	restored, err := Restore(src.Nodes(), src.Objects(), src.Options())
	if err != nil {
		t.Fatal(err)
	}
	stats := restored.Stats()
	if stats.Leafs != 64 || stats.Nodes != 63 || stats.MaxDepth != src.Stats().MaxDepth {
		t.Fatalf("unexpected restored stats %+v", stats)
	}

	for i := 0; i < 100; i++ {
		r := randomRay(rng)
		if src.Intersect(&r).Distance != restored.Intersect(&r).Distance {
			t.Fatalf("ray %d: restored tree result mismatch", i)
		}
	}
}

func TestRestoreValidation(t *testing.T) {
	a := newTestBox(types.XYZ(0, 0, 0), 1)
	b := newTestBox(types.XYZ(5, 0, 0), 1)
	src := New([]Object{a, b}, DefaultOptions())

	clone := func() []BvhNode {
		return append([]BvhNode(nil), src.Nodes()...)
	}

	// Child pointing back at the root.
	nodes := clone()
	nodes[0].SetChildNodes(1, 0)
	if _, err := Restore(nodes, src.Objects(), DefaultOptions()); !errors.Is(err, ErrInvalidNode) {
		t.Fatalf("expected ErrInvalidNode; got %v", err)
	}

	// Leaf referencing a missing primitive.
	nodes = clone()
	nodes[2].SetPrimitives(7, 1)
	if _, err := Restore(nodes, src.Objects(), DefaultOptions()); !errors.Is(err, ErrPrimitiveRange) {
		t.Fatalf("expected ErrPrimitiveRange; got %v", err)
	}

	// Both leafs referencing the same primitive.
	nodes = clone()
	nodes[2].SetPrimitives(0, 1)
	nodes[1].SetPrimitives(0, 1)
	if _, err := Restore(nodes, src.Objects(), DefaultOptions()); !errors.Is(err, ErrUnreferencedPrimitive) {
		t.Fatalf("expected ErrUnreferencedPrimitive; got %v", err)
	}

	// Objects without nodes.
	if _, err := Restore(nil, src.Objects(), DefaultOptions()); !errors.Is(err, ErrUnreferencedPrimitive) {
		t.Fatalf("expected ErrUnreferencedPrimitive; got %v", err)
	}
}

func TestGobRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	src := New(randomBoxes(rng, 32), Options{MaxPrimsInNode: 4, SplitMethod: SplitMiddle})

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(src); err != nil {
		t.Fatal(err)
	}

	var decoded BVHAccel
	if err := gob.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.Options() != src.Options() {
		t.Fatalf("expected options %+v; got %+v", src.Options(), decoded.Options())
	}
	if !cmp.Equal(src.Nodes(), decoded.Nodes()) {
		t.Fatal("expected decoded nodes to match")
	}
	for i := 0; i < 100; i++ {
		r := randomRay(rng)
		if src.Intersect(&r).Distance != decoded.Intersect(&r).Distance {
			t.Fatalf("ray %d: decoded tree result mismatch", i)
		}
	}
}
