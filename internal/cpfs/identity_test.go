package cpfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentical(t *testing.T) {
	tests := []struct {
		name string
		a, b Stat
		want bool
	}{
		{"same dev/ino", Stat{Dev: 1, Ino: 2}, Stat{Dev: 1, Ino: 2}, true},
		{"different ino", Stat{Dev: 1, Ino: 2}, Stat{Dev: 1, Ino: 3}, false},
		{"different dev", Stat{Dev: 1, Ino: 2}, Stat{Dev: 2, Ino: 2}, false},
		{"both zero", Stat{}, Stat{}, false},
		{"dev zero", Stat{Dev: 0, Ino: 2}, Stat{Dev: 0, Ino: 2}, false},
		{"ino zero", Stat{Dev: 1, Ino: 0}, Stat{Dev: 1, Ino: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identical(tt.a, tt.b))
		})
	}
}

func TestIsSrcSubdirectory(t *testing.T) {
	tests := []struct {
		src, dest string
		want      bool
	}{
		{"/a/b", "/a/b/c", true},
		{"/a/b", "/a/b", true},
		{"/a/b", "/a/bc", false},
		{"/a/b", "/a", false},
		{"/a/b/", "/a/b/c/", true},
		{"/", "/a", true},
	}
	for _, tt := range tests {
		t.Run(tt.src+"->"+tt.dest, func(t *testing.T) {
			assert.Equal(t, tt.want, isSrcSubdirectory(tt.src, tt.dest))
		})
	}
}
