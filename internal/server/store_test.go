package server

import (
	"testing"
	"time"

	"co-attain/internal/model"
)

func TestResultStoreRoundTrip(t *testing.T) {
	s := NewResultStore(time.Minute)
	defer s.Close()

	data := &model.ReportData{Meta: model.CourseMeta{CourseCode: "22CS401"}}
	token := s.Put(data, []byte("excel-bytes"))
	if token == "" {
		t.Fatal("empty token")
	}

	res, ok := s.Get(token)
	if !ok {
		t.Fatal("token not found")
	}
	if res.data.Meta.CourseCode != "22CS401" || string(res.excel) != "excel-bytes" {
		t.Errorf("stored result = %+v", res)
	}

	// Tokens are unique per upload
	if other := s.Put(data, nil); other == token {
		t.Error("duplicate token issued")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d", s.Len())
	}
}

func TestResultStoreExpiry(t *testing.T) {
	s := NewResultStore(10 * time.Millisecond)
	defer s.Close()

	token := s.Put(&model.ReportData{}, nil)
	time.Sleep(25 * time.Millisecond)

	if _, ok := s.Get(token); ok {
		t.Error("expired token still resolvable")
	}
}

func TestResultStoreUnknownToken(t *testing.T) {
	s := NewResultStore(time.Minute)
	defer s.Close()

	if _, ok := s.Get("no-such-token"); ok {
		t.Error("unknown token resolved")
	}
}
