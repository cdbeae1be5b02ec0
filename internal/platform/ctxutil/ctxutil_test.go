package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	if GetRequestData(ctx) != nil || UserID(ctx) != uuid.Nil {
		t.Fatalf("empty context should carry no request data")
	}
	id := uuid.New()
	ctx = WithRequestData(ctx, &RequestData{UserID: id, Username: "ada"})
	if UserID(ctx) != id {
		t.Fatalf("UserID: got %s want %s", UserID(ctx), id)
	}
	if rd := GetRequestData(ctx); rd.Username != "ada" {
		t.Fatalf("unexpected request data: %+v", rd)
	}
}

func TestTraceData(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t", RequestID: "r"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t" || td.RequestID != "r" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
}
