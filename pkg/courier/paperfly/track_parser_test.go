package paperfly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const trackerFragment = `
<div id="tracker"></div>
<script type="text/javascript">
$("#order_id").val("PF12345678");
$("#merchant_name").val("Demo Shop");
$("#order_status_eng").val("Out For Delivery");
$("#order_status").html("<b>ডেলিভারির জন্য বের হয়েছে</b>");
</script>`

func TestParseTracker(t *testing.T) {
	fields := ParseTracker(trackerFragment)

	assert.Equal(t, "PF12345678", fields["order_id"])
	assert.Equal(t, "Out For Delivery", fields["order_status_eng"])
	assert.Equal(t, "ডেলিভারির জন্য বের হয়েছে", fields["order_status"], "html tags stripped from values")
}

func TestParseTracker_NoPatterns(t *testing.T) {
	fields := ParseTracker("<html><body>Not Found</body></html>")
	assert.Empty(t, fields)
}

func TestExtractTrackerStatus(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "english field preferred",
			text: trackerFragment,
			want: "Out For Delivery",
		},
		{
			name: "falls back to order_status",
			text: `$("#order_status").val("delivered")`,
			want: "delivered",
		},
		{
			name: "raw text probe",
			text: `{"delivery_status":"in_transit"}`,
			want: "in_transit",
		},
		{
			name: "probe with equals sign",
			text: `var status = "Picked";`,
			want: "Picked",
		},
		{
			name: "unattributed val assignment",
			text: `$(someField).val("Hold")`,
			want: "Hold",
		},
		{
			name: "nothing recognizable",
			text: "<html>maintenance page</html>",
			want: "",
		},
		{
			name: "empty input",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTrackerStatus(tt.text))
		})
	}
}

func TestThanaVariants(t *testing.T) {
	tests := []struct {
		name string
		area string
		city string
		want []string
	}{
		{
			name: "upazila suffix",
			area: "Savar Upazila",
			city: "Dhaka",
			want: []string{"Savar", "Savar Upazila", "Savar Thana", "Dhaka"},
		},
		{
			name: "thana suffix",
			area: "Kotwali Thana",
			city: "Chattogram",
			want: []string{"Kotwali", "Kotwali Thana", "Chattogram"},
		},
		{
			name: "bengali suffix",
			area: "সাভার উপজেলা",
			city: "Dhaka",
			want: []string{"সাভার", "সাভার উপজেলা", "Dhaka"},
		},
		{
			name: "no suffix",
			area: "Mirpur",
			city: "Dhaka",
			want: []string{"Mirpur", "Dhaka"},
		},
		{
			name: "empty area falls back to city",
			area: "",
			city: "Dhaka",
			want: []string{"Dhaka"},
		},
		{
			name: "area equals city",
			area: "Dhaka",
			city: "Dhaka",
			want: []string{"Dhaka"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, thanaVariants(tt.area, tt.city))
		})
	}
}

func TestSplitTrackingKey(t *testing.T) {
	orderRef, phone, err := splitTrackingKey("ord-1|01712345678")
	assert.NoError(t, err)
	assert.Equal(t, "ord-1", orderRef)
	assert.Equal(t, "01712345678", phone)

	for _, bad := range []string{"", "ord-1", "ord-1|", "|01712345678", "|"} {
		_, _, err := splitTrackingKey(bad)
		assert.Error(t, err, "key %q", bad)
	}
}
