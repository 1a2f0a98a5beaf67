package rendergraph

import (
	"testing"

	"github.com/gogpu/rendergraph/types"
)

func TestTaskEnabledByDefault(t *testing.T) {
	var task Task
	if !task.enabled(0) {
		t.Error("a task with a zero condition mask should be enabled regardless of the condition vector")
	}
	if !task.enabled(0xFFFFFFFF) {
		t.Error("a zero mask ignores every condition bit")
	}
}

func TestTaskEnabledWithMask(t *testing.T) {
	task := Task{ConditionMask: 0b11, ConditionValue: 0b01}
	if task.enabled(0b00) {
		t.Error("conditions 0b00 should not satisfy mask 0b11 value 0b01")
	}
	if !task.enabled(0b01) {
		t.Error("conditions 0b01 should satisfy mask 0b11 value 0b01")
	}
	if task.enabled(0b11) {
		t.Error("conditions 0b11 should not satisfy mask 0b11 value 0b01")
	}
}

func TestTaskWriteSet(t *testing.T) {
	bufA := BufferView{Handle: newHandle[bufferMarker](1, 0)}
	bufB := BufferView{Handle: newHandle[bufferMarker](2, 0)}
	task := Task{
		Attachments: []Attachment{
			{Access: types.AccessRead, kind: resourceBuffer, bufferView: bufA},
			{Access: types.AccessWrite, kind: resourceBuffer, bufferView: bufB},
		},
	}
	ws := task.writeSet()
	if len(ws) != 1 {
		t.Fatalf("writeSet() has %d entries, want 1", len(ws))
	}
	if _, ok := ws[attachmentKey(task.Attachments[1])]; !ok {
		t.Error("writeSet() should contain the write attachment's key")
	}
	if _, ok := ws[attachmentKey(task.Attachments[0])]; ok {
		t.Error("writeSet() should not contain the read attachment's key")
	}
}

func TestAttachmentBufferAndImage(t *testing.T) {
	bv := BufferView{Handle: newHandle[bufferMarker](3, 0)}
	att := Attachment{kind: resourceBuffer, bufferView: bv}
	if got, ok := att.Buffer(); !ok || got.Handle != bv.Handle {
		t.Error("Buffer() should return the attachment's buffer view for a buffer-kind attachment")
	}
	if _, ok := att.Image(); ok {
		t.Error("Image() should report false for a buffer-kind attachment")
	}

	iv := ImageView{Handle: newHandle[imageMarker](4, 0)}
	imgAtt := Attachment{kind: resourceImage, imageView: iv}
	if got, ok := imgAtt.Image(); !ok || got.Handle != iv.Handle {
		t.Error("Image() should return the attachment's image view for an image-kind attachment")
	}
}
