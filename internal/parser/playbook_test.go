package parser

import "testing"

func TestPlaybookParser_Parse(t *testing.T) {
	parser := NewPlaybookParser()

	tests := []struct {
		name      string
		output    string
		want      PlayRecap
		found     bool
		converged bool
	}{
		{
			name: "single host converged",
			output: `PLAY RECAP *********************************************************************
workstation : ok=5    changed=0    unreachable=0    failed=0    skipped=1    rescued=0    ignored=0`,
			want:      PlayRecap{OK: 5},
			found:     true,
			converged: true,
		},
		{
			name: "single host with changes",
			output: `PLAY RECAP *********************************************************************
workstation : ok=7    changed=3    unreachable=0    failed=0`,
			want:      PlayRecap{OK: 7, Changed: 3},
			found:     true,
			converged: false,
		},
		{
			name: "multiple hosts summed",
			output: `PLAY RECAP *********************************************************************
servera : ok=4    changed=1    unreachable=0    failed=0
serverb : ok=4    changed=0    unreachable=0    failed=1`,
			want:      PlayRecap{OK: 8, Changed: 1, Failed: 1},
			found:     true,
			converged: false,
		},
		{
			name:   "no recap line",
			output: "ERROR! the playbook could not be found",
			want:   PlayRecap{},
			found:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.output)
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
			if got.Found() != tt.found {
				t.Errorf("Found() = %v, want %v", got.Found(), tt.found)
			}
			if tt.found && got.Converged() != tt.converged {
				t.Errorf("Converged() = %v, want %v", got.Converged(), tt.converged)
			}
		})
	}
}
