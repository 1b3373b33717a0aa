package loader

import "testing"

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		path    string
		want    Kind
		wantErr bool
	}{
		{
			name: "yaml config",
			data: "processes: [y]\nhorizon: 5\n",
			path: "model.yaml",
			want: KindConfig,
		},
		{
			name: "json config",
			data: `{"processes": ["y"], "horizon": 5}`,
			path: "model.json",
			want: KindConfig,
		},
		{
			name: "path list",
			data: "from\tto\tarrows\tfree\tvalue\tlabel\none\ty0\t1\t1\t0\tmean_y0\n",
			path: "model.tsv",
			want: KindPathList,
		},
		{
			name: "equations",
			data: "# regressions\nly2 ~ 1*ly1\n",
			path: "model.txt",
			want: KindEquations,
		},
		{
			name: "equations with measurement operator",
			data: "ly1 =~ 1*y1\n",
			path: "model.lav",
			want: KindEquations,
		},
		{
			name:    "unrecognized",
			data:    "just some words\n",
			path:    "model.txt",
			wantErr: true,
		},
		{
			name: "yaml extension wins for plain content",
			data: "horizon: 5",
			path: "model.yml",
			want: KindConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectKind([]byte(tt.data), tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("DetectKind() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectKind() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectKind() = %q, want %q", got, tt.want)
			}
		})
	}
}
