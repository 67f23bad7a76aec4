package detect

import (
	"context"
	"errors"
	"testing"
	"time"
)

// funcSensor 用函数驱动的传感器桩
type funcSensor struct {
	fn func() (bool, error)
}

func (s funcSensor) IsBroken() (bool, error) { return s.fn() }
func (s funcSensor) Close() error            { return nil }

func TestWaitForBagShortBlipIgnored(t *testing.T) {
	// 遮挡 30ms 后恢复：短于防抖窗口，永远不应确认
	start := time.Now()
	sensor := funcSensor{fn: func() (bool, error) {
		return time.Since(start) < 30*time.Millisecond, nil
	}}
	m := NewMonitor(sensor, 80*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := m.WaitForBag(ctx); err == nil {
		t.Fatal("short blip should not confirm a trigger")
	}
}

func TestWaitForBagConfirms(t *testing.T) {
	sensor := funcSensor{fn: func() (bool, error) { return true, nil }}
	m := NewMonitor(sensor, 60*time.Millisecond)

	start := time.Now()
	if err := m.WaitForBag(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("confirmed after %v, before debounce window elapsed", elapsed)
	}
}

func TestWaitForBagFlappingThenSteady(t *testing.T) {
	// 先抖动（30ms 遮挡 + 恢复），100ms 后持续遮挡：只在持续段确认
	start := time.Now()
	sensor := funcSensor{fn: func() (bool, error) {
		e := time.Since(start)
		switch {
		case e < 30*time.Millisecond:
			return true, nil
		case e < 100*time.Millisecond:
			return false, nil
		default:
			return true, nil
		}
	}}
	m := NewMonitor(sensor, 50*time.Millisecond)

	if err := m.WaitForBag(context.Background()); err != nil {
		t.Fatal(err)
	}
	// 确认时刻必须在持续遮挡段 + 防抖窗口之后
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("confirmed after %v, expected >= 150ms", elapsed)
	}
}

func TestWaitForBagSensorError(t *testing.T) {
	wantErr := errors.New("gpio read failed")
	sensor := funcSensor{fn: func() (bool, error) { return false, wantErr }}
	m := NewMonitor(sensor, 80*time.Millisecond)

	if err := m.WaitForBag(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestIsActive(t *testing.T) {
	broken := false
	sensor := funcSensor{fn: func() (bool, error) { return broken, nil }}
	m := NewMonitor(sensor, 80*time.Millisecond)

	if m.IsActive() {
		t.Error("IsActive should be false while clear")
	}
	broken = true
	if !m.IsActive() {
		t.Error("IsActive should be true while broken")
	}
}

func TestVerifyAllClear(t *testing.T) {
	sensor := funcSensor{fn: func() (bool, error) { return false, nil }}
	m := NewMonitor(sensor, 80*time.Millisecond)

	pct, err := m.Verify(context.Background(), 300*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if pct != 1 {
		t.Errorf("clear fraction = %.2f, want 1.0", pct)
	}
}
