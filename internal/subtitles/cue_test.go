package subtitles

import (
	"testing"

	"srtkit/internal/textutil"
)

func TestNewCueTrimsAndParses(t *testing.T) {
	c := NewCue("00:00:01,000", "00:00:03,500", "  Hello world \r\n")
	if c.Start() != 1000 || c.Stop() != 3500 {
		t.Fatalf("ms = %d..%d, want 1000..3500", c.Start(), c.Stop())
	}
	if c.Text() != "Hello world" {
		t.Fatalf("text = %q", c.Text())
	}
	if c.Duration() != 2500 {
		t.Fatalf("duration = %d, want 2500", c.Duration())
	}
}

func TestCueSettersKeepFormsConsistent(t *testing.T) {
	c := NewCue("00:00:01,000", "00:00:02,000", "x")

	c.SetStart(3723456)
	if c.StartTC() != "01:02:03,456" {
		t.Fatalf("StartTC = %q", c.StartTC())
	}
	c.SetStopTC("01:02:04,000")
	if c.Stop() != 3724000 {
		t.Fatalf("Stop = %d", c.Stop())
	}
	c.SetStartTC("00:00:10.250")
	if c.Start() != 10250 {
		t.Fatalf("Start = %d", c.Start())
	}
	c.SetStop(500)
	if c.StopTC() != "00:00:00,500" {
		t.Fatalf("StopTC = %q", c.StopTC())
	}
	if c.Duration() != 500-10250 {
		t.Fatalf("inverted duration should pass through, got %d", c.Duration())
	}
}

func TestCueStripTags(t *testing.T) {
	c := NewCue("00:00:01,000", "00:00:02,000", `{\an8}<b>Hi</b> there`)

	cases := []struct {
		name         string
		basic        bool
		replacements []textutil.Replacement
		want         string
		changed      bool
	}{
		{name: "style blocks only", want: "<b>Hi</b> there", changed: true},
		{name: "basic markup", basic: true, want: "Hi there", changed: true},
		{
			name:         "replacements after stripping",
			basic:        true,
			replacements: []textutil.Replacement{{Old: "Hi", New: "Yo"}, {Old: "Yo", New: "Hey"}},
			want:         "Hey there",
			changed:      true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := c.StripTags(tc.basic, tc.replacements)
			if got != tc.want || changed != tc.changed {
				t.Fatalf("StripTags = %q, %v; want %q, %v", got, changed, tc.want, tc.changed)
			}
		})
	}

	plain := NewCue("00:00:01,000", "00:00:02,000", "plain")
	if got, changed := plain.StripTags(true, nil); got != "plain" || changed {
		t.Fatalf("plain StripTags = %q, %v", got, changed)
	}
}

func TestCueTextWith(t *testing.T) {
	c := NewCue("00:00:01,000", "00:00:02,000", "{\\i1}<i>Hi</i>")
	if got := c.TextWith(StripOptions{}); got != c.Text() {
		t.Fatalf("TextWith without stripping = %q", got)
	}
	if got := c.TextWith(StripOptions{StripTags: true}); got != "<i>Hi</i>" {
		t.Fatalf("TextWith StripTags = %q", got)
	}
	if got := c.TextWith(StripOptions{StripTags: true, StripBasic: true}); got != "Hi" {
		t.Fatalf("TextWith StripBasic = %q", got)
	}
}

func TestCueMeasurement(t *testing.T) {
	c := NewCue("00:00:01,000", "00:00:03,000", "<i>Hello</i>\r\nwörld")
	if got := c.Flattened(); got != "Hello wörld" {
		t.Fatalf("Flattened = %q", got)
	}
	if got := c.CharLength(); got != 11 {
		t.Fatalf("CharLength = %d, want 11", got)
	}
	if got := c.CPS(); got != 5.5 {
		t.Fatalf("CPS = %v, want 5.5", got)
	}
	if got := c.ReadingSpeed(); got != 11000.0/1500 {
		t.Fatalf("ReadingSpeed = %v", got)
	}
	m := c.Metrics()
	if m.Chars != 11 || m.DurationMS != 2000 || m.CPS != 5.5 || m.Visible != "Hello\r\nwörld" {
		t.Fatalf("Metrics = %+v", m)
	}
}

func TestCueMetricsFollowMutation(t *testing.T) {
	c := NewCue("00:00:00,000", "00:00:01,500", "abcd")
	if got := c.ReadingSpeed(); got != 4 {
		t.Fatalf("ReadingSpeed = %v, want 4", got)
	}
	c.SetText("abcdefgh")
	c.SetStop(2500)
	if got := c.ReadingSpeed(); got != 4 {
		t.Fatalf("ReadingSpeed after edit = %v, want 4", got)
	}
}

func TestReadingSpeedClamp(t *testing.T) {
	cases := []struct {
		stop int64
		want float64
	}{
		{stop: 1000, want: 3000},
		{stop: 1500, want: 3000},
		{stop: 500, want: 3000},
		{stop: 1502, want: 1500},
	}
	for _, tc := range cases {
		c := NewCueMS(1000, tc.stop, "abc")
		if got := c.ReadingSpeed(); got != tc.want {
			t.Fatalf("duration %d: ReadingSpeed = %v, want %v", c.Duration(), got, tc.want)
		}
	}
	if got := NewCueMS(1000, 1000, "abc").CPS(); got != 0 {
		t.Fatalf("zero duration CPS = %v, want 0", got)
	}
}

func TestTimecodeLine(t *testing.T) {
	c := NewCue("00:00:01,000", "00:00:02,500", "x")
	if got := c.TimecodeLine(false); got != "00:00:01,000 --> 00:00:02,500" {
		t.Fatalf("srt line = %q", got)
	}
	if got := c.TimecodeLine(true); got != "00:00:01.000 --> 00:00:02.500" {
		t.Fatalf("vtt line = %q", got)
	}
	v := NewCue("00:00:01.000", "00:00:02.500", "x")
	if got := v.TimecodeLine(false); got != "00:00:01,000 --> 00:00:02,500" {
		t.Fatalf("vtt source as srt = %q", got)
	}
}
