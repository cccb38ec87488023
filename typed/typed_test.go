package typed

import (
	"context"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/proxycache"
	"github.com/unkn0wn-root/proxycache/codec"
)

// memStore fakes the string store; the typed layer only needs its contract.
type memStore struct {
	m map[string]string
}

var _ proxycache.Store = (*memStore)(nil)

func newMemStore() *memStore { return &memStore{m: make(map[string]string)} }

func (s *memStore) Get(_ context.Context, key string) (string, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *memStore) Put(_ context.Context, key, value string) bool {
	s.m[key] = value
	return true
}

func (s *memStore) Evict(_ context.Context, key string) bool {
	delete(s.m, key)
	return true
}

func (s *memStore) Close(context.Context) error { return nil }

type session struct {
	UID  int    `json:"uid" msgpack:"uid"`
	Name string `json:"name" msgpack:"name"`
}

func TestTypedRoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := newMemStore()
	st := New[session](inner, codec.JSON[session]{})

	if _, ok := st.Get(ctx, "s:1"); ok {
		t.Fatalf("expected miss before Put")
	}

	want := session{UID: 7, Name: "ada"}
	if !st.Put(ctx, "s:1", want) {
		t.Fatalf("Put failed")
	}
	got, ok := st.Get(ctx, "s:1")
	if !ok || got != want {
		t.Fatalf("Get: ok=%v got=%+v", ok, got)
	}

	if !st.Evict(ctx, "s:1") {
		t.Fatalf("Evict failed")
	}
	if _, ok := st.Get(ctx, "s:1"); ok {
		t.Fatalf("expected miss after Evict")
	}
}

func TestTypedCorruptPayloadReadsAsMiss(t *testing.T) {
	ctx := context.Background()
	inner := newMemStore()
	inner.m["s:1"] = "{not json"

	st := New[session](inner, codec.JSON[session]{})
	if v, ok := st.Get(ctx, "s:1"); ok {
		t.Fatalf("corrupt payload should be a miss, got %+v", v)
	}
}

func TestTypedMsgpack(t *testing.T) {
	ctx := context.Background()
	st := New[session](newMemStore(), codec.Msgpack[session]{})

	want := session{UID: 42, Name: "grace"}
	if !st.Put(ctx, "s:2", want) {
		t.Fatalf("Put failed")
	}
	if got, ok := st.Get(ctx, "s:2"); !ok || got != want {
		t.Fatalf("Get: ok=%v got=%+v", ok, got)
	}
}

func TestTypedCBOR(t *testing.T) {
	ctx := context.Background()
	st := New[session](newMemStore(), codec.MustCBOR[session](false))

	want := session{UID: 9, Name: "linus"}
	if !st.Put(ctx, "s:9", want) {
		t.Fatalf("Put failed")
	}
	if got, ok := st.Get(ctx, "s:9"); !ok || got != want {
		t.Fatalf("Get: ok=%v got=%+v", ok, got)
	}
}

func TestTypedProtobuf(t *testing.T) {
	ctx := context.Background()
	st := New[*structpb.Struct](newMemStore(), codec.NewProtobuf(func() *structpb.Struct {
		return &structpb.Struct{}
	}))

	want, err := structpb.NewStruct(map[string]any{"uid": 7, "name": "ada"})
	if err != nil {
		t.Fatalf("structpb: %v", err)
	}
	if !st.Put(ctx, "s:7", want) {
		t.Fatalf("Put failed")
	}
	got, ok := st.Get(ctx, "s:7")
	if !ok {
		t.Fatalf("Get missed")
	}
	m := got.AsMap()
	if m["uid"] != float64(7) || m["name"] != "ada" {
		t.Fatalf("Get: got %v", m)
	}
}

func TestTypedRawCodecs(t *testing.T) {
	ctx := context.Background()

	ss := New[string](newMemStore(), codec.String{})
	if !ss.Put(ctx, "k", "raw value") {
		t.Fatalf("Put failed")
	}
	if got, ok := ss.Get(ctx, "k"); !ok || got != "raw value" {
		t.Fatalf("String codec: ok=%v got=%q", ok, got)
	}

	bs := New[[]byte](newMemStore(), codec.Bytes{})
	payload := []byte{0x00, 0xff, 0x10}
	if !bs.Put(ctx, "b", payload) {
		t.Fatalf("Put failed")
	}
	got, ok := bs.Get(ctx, "b")
	if !ok || string(got) != string(payload) {
		t.Fatalf("Bytes codec: ok=%v got=%v", ok, got)
	}
}

func TestTypedLimitCodec(t *testing.T) {
	ctx := context.Background()
	inner := newMemStore()
	st := New[session](inner, codec.Limit[session]{
		Inner:     codec.JSON[session]{},
		MaxDecode: 4,
	})

	if !st.Put(ctx, "s:3", session{UID: 1, Name: "x"}) {
		t.Fatalf("Put failed")
	}
	// payload exceeds the decode limit, so the read degrades to a miss
	if _, ok := st.Get(ctx, "s:3"); ok {
		t.Fatalf("oversized payload should be rejected on read")
	}
}
