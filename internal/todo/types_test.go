package todo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTodo_MarshalJSON(t *testing.T) {
	created := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	updated := created.Add(1500 * time.Millisecond)

	tests := []struct {
		name string
		todo Todo
		want string
	}{
		{
			name: "never updated",
			todo: Todo{ID: 1, Title: "Aprender CI/CD", CreatedAt: created},
			want: `{"id":1,"title":"Aprender CI/CD","completed":false,"createdAt":"2026-10-18T12:00:00.000Z"}`,
		},
		{
			name: "updated",
			todo: Todo{ID: 2, Title: "x", Completed: true, CreatedAt: created, UpdatedAt: &updated},
			want: `{"id":2,"title":"x","completed":true,"createdAt":"2026-10-18T12:00:00.000Z","updatedAt":"2026-10-18T12:00:01.500Z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.todo)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTodo_UnmarshalWireFormat(t *testing.T) {
	var got Todo
	data := `{"id":7,"title":"t","completed":true,"createdAt":"2026-10-18T12:00:00.000Z","updatedAt":"2026-10-18T12:00:02.250Z"}`
	if err := json.NewDecoder(strings.NewReader(data)).Decode(&got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.ID != 7 || !got.Completed || got.UpdatedAt == nil {
		t.Fatalf("decoded = %+v", got)
	}
	if want := time.Date(2026, 10, 18, 12, 0, 2, 250e6, time.UTC); !got.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, want)
	}
}

func TestTodo_CloneIsIndependent(t *testing.T) {
	u := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	orig := Todo{ID: 1, UpdatedAt: &u}
	c := orig.Clone()
	*c.UpdatedAt = c.UpdatedAt.Add(time.Hour)
	if !orig.UpdatedAt.Equal(u) {
		t.Error("Clone shares UpdatedAt with the original")
	}
}

func TestPatch_IsEmpty(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Error("zero Patch should be empty")
	}
	if (Patch{Completed: boolPtr(false)}).IsEmpty() {
		t.Error("Patch with Completed should not be empty")
	}
}
