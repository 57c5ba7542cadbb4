package ipallow

import (
	"net/http"
	"testing"
)

func TestResolveClientAddress_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "transport address only",
			remoteAddr: "1.1.1.1:54321",
			want:       "1.1.1.1",
		},
		{
			name:       "forwarded-for overrides transport",
			remoteAddr: "1.1.1.1:54321",
			headers:    map[string]string{"X-Forwarded-For": "2.2.2.2, 3.3.3.3"},
			want:       "2.2.2.2",
		},
		{
			name:       "real-ip wins over forwarded-for",
			remoteAddr: "1.1.1.1:54321",
			headers: map[string]string{
				"X-Forwarded-For": "2.2.2.2",
				"X-Real-IP":       "4.4.4.4",
			},
			want: "4.4.4.4",
		},
		{
			name:    "real-ip without transport address",
			headers: map[string]string{"X-Real-IP": " 4.4.4.4 "},
			want:    "4.4.4.4",
		},
		{
			name:       "single forwarded-for entry trimmed",
			remoteAddr: "1.1.1.1:54321",
			headers:    map[string]string{"X-Forwarded-For": "  2.2.2.2  "},
			want:       "2.2.2.2",
		},
		{
			name: "nothing present",
			want: "",
		},
		{
			name:       "IPv6 transport address",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "transport address without port",
			remoteAddr: "10.0.0.7",
			want:       "10.0.0.7",
		},
		{
			name:       "bracketed transport address without port",
			remoteAddr: "[::1]",
			want:       "::1",
		},
		{
			name:       "empty first forwarded-for entry overrides",
			remoteAddr: "1.1.1.1:54321",
			headers:    map[string]string{"X-Forwarded-For": ", 2.2.2.2"},
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := make(http.Header)
			for name, value := range tt.headers {
				header.Set(name, value)
			}

			if got := ResolveClientAddress(tt.remoteAddr, header); got != tt.want {
				t.Fatalf("ResolveClientAddress(%q, %v) = %q, want %q",
					tt.remoteAddr, tt.headers, got, tt.want)
			}
		})
	}
}

func TestResolveClientAddress_NilHeader(t *testing.T) {
	if got := ResolveClientAddress("1.1.1.1:80", nil); got != "1.1.1.1" {
		t.Fatalf("ResolveClientAddress with nil header = %q, want %q", got, "1.1.1.1")
	}
}

func TestParseCandidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		valid bool
	}{
		{name: "plain IPv4", input: "192.168.1.1", want: "192.168.1.1", valid: true},
		{name: "IPv4 with port", input: "192.168.1.1:8080", want: "192.168.1.1", valid: true},
		{name: "bracketed IPv6", input: "[::1]", want: "::1", valid: true},
		{name: "IPv6 with port", input: "[2001:db8::1]:443", want: "2001:db8::1", valid: true},
		{name: "surrounding whitespace", input: "  10.0.0.1  ", want: "10.0.0.1", valid: true},
		{name: "garbage", input: "not-an-ip", valid: false},
		{name: "empty", input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := parseCandidate(tt.input)
			if ip.IsValid() != tt.valid {
				t.Fatalf("parseCandidate(%q).IsValid() = %v, want %v", tt.input, ip.IsValid(), tt.valid)
			}
			if tt.valid && ip.String() != tt.want {
				t.Fatalf("parseCandidate(%q) = %v, want %v", tt.input, ip, tt.want)
			}
		})
	}
}
