package controller

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestController(t *testing.T, body *fakeBody, tuning Tuning, opts ...Option) (*CharacterController, *fakeTimers) {
	t.Helper()
	timers := newFakeTimers()
	c, err := New(body, timers, tuning, opts...)
	require.NoError(t, err)
	return c, timers
}

func assertVecNear(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta)
}

func angleBetween(a, b mgl64.Vec3) float64 {
	return mgl64.RadToDeg(math.Acos(mgl64.Clamp(a.Normalize().Dot(b.Normalize()), -1, 1)))
}

func TestNewValidates(t *testing.T) {
	timers := newFakeTimers()

	_, err := New(nil, timers, DefaultTuning())
	assert.ErrorIs(t, err, ErrNilMovement)

	_, err = New(&fakeBody{}, nil, DefaultTuning())
	assert.ErrorIs(t, err, ErrNilTimers)

	bad := DefaultTuning()
	bad.TakeoffDuration = 0
	_, err = New(&fakeBody{}, timers, bad)
	assert.ErrorIs(t, err, ErrInvalidTuning)
}

func TestNewStartsControlAtBodyFacing(t *testing.T) {
	body := &fakeBody{rotation: common.Rotator{Pitch: 10, Yaw: 40, Roll: 5}}
	c, _ := newTestController(t, body, DefaultTuning())
	assert.Equal(t, common.Rotator{Pitch: 10, Yaw: 40}, c.ControlRotation())
	assert.Equal(t, MinArmLength, c.SpringArm().TargetArmLength)
}

func TestTickSnapsToTargetWhenStepCoversAngle(t *testing.T) {
	body := &fakeBody{mode: common.MovementFlying}
	c, _ := newTestController(t, body, DefaultTuning())
	c.AddYawInput(30)

	c.Tick(1.0 / 60)

	assert.InDelta(t, 30, body.rotation.Yaw, 1e-9)
	assert.InDelta(t, 0, body.rotation.Pitch, 1e-9)
}

func TestTickTurnsPartwayWithoutOvershoot(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TurnSpeed = 10
	tuning.TurnSpeedScaling = 1

	cases := []struct {
		name string
		yaw  float64
		dt   float64
	}{
		{"quarter_turn", 90, 1},
		{"small_dt", 120, 0.1},
		{"zero_dt", 45, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := &fakeBody{mode: common.MovementFlying}
			c, _ := newTestController(t, body, tuning)
			c.AddYawInput(tc.yaw)

			from := body.rotation.Vector()
			to := c.ControlRotation().Vector()
			before := angleBetween(from, to)
			step := tuning.TurnSpeed * tuning.TurnSpeedScaling * to.Sub(from).Len() * tc.dt

			c.Tick(tc.dt)

			after := angleBetween(body.rotation.Vector(), to)
			assert.InDelta(t, before-step, after, 1e-6)
			assert.GreaterOrEqual(t, body.rotation.Yaw, 0.0)
			assert.LessOrEqual(t, body.rotation.Yaw, tc.yaw)
		})
	}
}

func TestTickKeepsTurningUntilAligned(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TurnSpeed = 50
	tuning.TurnSpeedScaling = 1
	body := &fakeBody{mode: common.MovementFlying}
	c, _ := newTestController(t, body, tuning)
	c.AddYawInput(-135)
	c.AddPitchInput(20)

	target := c.ControlRotation().Vector()
	prev := angleBetween(body.rotation.Vector(), target)
	for i := 0; i < 600 && prev > 1e-6; i++ {
		c.Tick(1.0 / 60)
		cur := angleBetween(body.rotation.Vector(), target)
		require.LessOrEqual(t, cur, prev+1e-9)
		prev = cur
	}
	assert.Less(t, prev, 1.0)
}

func TestGroundedFacingNeverPointsDown(t *testing.T) {
	down := mgl64.RadToDeg(math.Asin(-0.3))

	t.Run("walking_clamps", func(t *testing.T) {
		body := &fakeBody{mode: common.MovementWalking, rotation: common.Rotator{Pitch: down, Yaw: 15}}
		c, _ := newTestController(t, body, DefaultTuning())

		c.Tick(1.0 / 60)

		assert.InDelta(t, 0, body.rotation.Vector().Z(), 1e-12)
		assert.InDelta(t, 15, body.rotation.Yaw, 1e-9)
	})

	t.Run("flying_keeps_pitch", func(t *testing.T) {
		body := &fakeBody{mode: common.MovementFlying, rotation: common.Rotator{Pitch: down, Yaw: 15}}
		c, _ := newTestController(t, body, DefaultTuning())

		c.Tick(1.0 / 60)

		assert.InDelta(t, -0.3, body.rotation.Vector().Z(), 1e-9)
	})

	t.Run("straight_down_keeps_yaw", func(t *testing.T) {
		body := &fakeBody{mode: common.MovementWalking, rotation: common.Rotator{Pitch: -89, Yaw: 70}}
		c, _ := newTestController(t, body, DefaultTuning())
		c.control.Pitch = -90

		c.Tick(1.0 / 60)

		assert.Equal(t, 70.0, body.rotation.Yaw)
		assert.Zero(t, body.rotation.Pitch)
	})

	t.Run("flying_straight_down_reaches_target", func(t *testing.T) {
		body := &fakeBody{mode: common.MovementFlying, rotation: common.Rotator{Pitch: -90, Yaw: 30}}
		c, _ := newTestController(t, body, DefaultTuning())
		assert.Equal(t, -maxControlPitch, c.ControlRotation().Pitch)

		for i := 0; i < 5; i++ {
			c.Tick(1.0 / 60)
			assert.InDelta(t, -maxControlPitch, body.rotation.Pitch, 1e-6)
			assert.InDelta(t, 30, body.rotation.Yaw, 1e-6)
		}
	})
}

func TestTickClampsVelocity(t *testing.T) {
	tuning := DefaultTuning()
	tuning.MaxVelocity = 500

	cases := []struct {
		name string
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{"vertical_over", mgl64.Vec3{0, 0, 600}, mgl64.Vec3{0, 0, 500}},
		{"diagonal_over", mgl64.Vec3{600, 800, 0}, mgl64.Vec3{300, 400, 0}},
		{"under_limit", mgl64.Vec3{100, 0, 0}, mgl64.Vec3{100, 0, 0}},
		{"at_rest", mgl64.Vec3{}, mgl64.Vec3{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := &fakeBody{mode: common.MovementFlying, velocity: tc.in}
			c, _ := newTestController(t, body, tuning)

			c.Tick(1.0 / 60)

			assertVecNear(t, tc.want, body.velocity, 1e-9)
			assert.LessOrEqual(t, body.velocity.Len(), tuning.MaxVelocity+1e-9)
		})
	}
}

func TestSpringArmFollowsSpeed(t *testing.T) {
	t.Run("monotonic_toward_capped_target", func(t *testing.T) {
		tuning := DefaultTuning()
		tuning.SpringArmVelocityFactor = 1
		body := &fakeBody{mode: common.MovementFlying, velocity: mgl64.Vec3{2900, 0, 0}}
		c, _ := newTestController(t, body, tuning)

		prev := c.SpringArm().TargetArmLength
		for i := 0; i < 300; i++ {
			c.Tick(1.0 / 30)
			cur := c.SpringArm().TargetArmLength
			require.GreaterOrEqual(t, cur, prev)
			require.LessOrEqual(t, cur, MaxArmLength)
			prev = cur
		}
		assert.InDelta(t, MaxArmLength, prev, 1)
	})

	t.Run("settles_back_when_slow", func(t *testing.T) {
		body := &fakeBody{mode: common.MovementFlying}
		c, _ := newTestController(t, body, DefaultTuning())
		c.arm.TargetArmLength = MaxArmLength

		prev := c.SpringArm().TargetArmLength
		for i := 0; i < 300; i++ {
			c.Tick(1.0 / 30)
			cur := c.SpringArm().TargetArmLength
			require.LessOrEqual(t, cur, prev)
			require.GreaterOrEqual(t, cur, MinArmLength)
			prev = cur
		}
		assert.InDelta(t, MinArmLength, prev, 1)
	})

	t.Run("large_dt_does_not_overshoot", func(t *testing.T) {
		body := &fakeBody{mode: common.MovementFlying, velocity: mgl64.Vec3{1000, 0, 0}}
		c, _ := newTestController(t, body, DefaultTuning())

		c.Tick(5)

		want := MinArmLength + 1000*DefaultTuning().SpringArmVelocityFactor
		assert.InDelta(t, want, c.SpringArm().TargetArmLength, 1e-9)
	})
}

func TestTakeoffIsIdempotent(t *testing.T) {
	body := &fakeBody{mode: common.MovementWalking}
	c, timers := newTestController(t, body, DefaultTuning(), WithGuidePath(linePath{length: 200}))

	c.Takeoff()
	c.Takeoff()

	assert.Equal(t, 1, timers.scheduled)
	assert.Equal(t, 1, timers.Len())
	assert.Equal(t, TakeoffInProgress, c.TakeoffState().Phase)
}

func TestTakeoffFollowsGuidePath(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TakeoffDuration = 1
	anchor := mgl64.Vec3{10, 20, 0}
	body := &fakeBody{mode: common.MovementWalking, location: anchor, rotation: common.Rotator{Yaw: 90}}
	c, timers := newTestController(t, body, tuning, WithGuidePath(linePath{length: 200}))

	c.Takeoff()
	assert.Equal(t, anchor, c.TakeoffState().Anchor)

	timers.Advance(0.5)
	body.velocity = mgl64.Vec3{0, 0, 9000}
	c.Tick(1.0 / 60)

	// half way along a 200cm path that points along the actor's +Y facing
	want := anchor.Add(mgl64.Vec3{0, 100, 0})
	assertVecNear(t, want, body.location, 1e-9)
	assert.InDelta(t, 0.5, c.TakeoffState().Elapsed, 1e-12)

	// the rest of the frame update is skipped while pinned to the path
	assert.Equal(t, mgl64.Vec3{0, 0, 9000}, body.velocity)
	assert.Equal(t, MinArmLength, c.SpringArm().TargetArmLength)
}

func TestTakeoffEndedLaunchesAlongExitTangent(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TakeoffDuration = 0.5
	body := &fakeBody{mode: common.MovementWalking, rotation: common.Rotator{Yaw: 180}}
	c, timers := newTestController(t, body, tuning, WithGuidePath(linePath{length: 300}))

	c.Takeoff()
	timers.Advance(0.5)

	require.Len(t, body.impulses, 1)
	got := body.impulses[0]
	assert.False(t, got.velocityChange)
	assertVecNear(t, mgl64.Vec3{-tuning.LungeStrength, 0, 0}, got.v, 1e-6)
	assert.Equal(t, TakeoffInactive, c.TakeoffState().Phase)

	// a new takeoff may start once the previous one is over
	c.Takeoff()
	assert.Equal(t, 2, timers.scheduled)
}

func TestTakeoffExitIgnoresTheLastPercent(t *testing.T) {
	body := &fakeBody{mode: common.MovementWalking}
	c, timers := newTestController(t, body, DefaultTuning(), WithGuidePath(hookPath{length: 1000}))

	c.Takeoff()
	timers.Advance(DefaultTuning().TakeoffDuration)

	require.Len(t, body.impulses, 1)
	assertVecNear(t, mgl64.Vec3{DefaultTuning().LungeStrength, 0, 0}, body.impulses[0].v, 1e-6)
}

func TestTakeoffEndedWithDegenerateExitSkipsImpulse(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	body := &fakeBody{mode: common.MovementWalking}
	c, timers := newTestController(t, body, DefaultTuning(), WithGuidePath(pointPath{}), WithLogger(zap.New(core)))

	c.Takeoff()
	timers.Advance(DefaultTuning().TakeoffDuration)

	assert.Empty(t, body.impulses)
	assert.Equal(t, 1, logs.FilterMessage("zero-length impulse direction").Len())
	assert.False(t, c.TakeoffState().Active())
}

func TestTakeoffRecoversFromDroppedTimer(t *testing.T) {
	body := &fakeBody{mode: common.MovementFlying, velocity: mgl64.Vec3{0, 0, 9000}}
	c, timers := newTestController(t, body, DefaultTuning(), WithGuidePath(linePath{length: 200}))

	c.Takeoff()
	require.True(t, timers.Clear(c.TakeoffState().Timer))
	c.Tick(1.0 / 60)

	assert.False(t, c.TakeoffState().Active())
	assert.LessOrEqual(t, body.velocity.Len(), DefaultTuning().MaxVelocity)
}

func TestTakeoffWithoutPathLunges(t *testing.T) {
	body := &fakeBody{mode: common.MovementWalking, rotation: common.Rotator{Yaw: 90}}
	c, timers := newTestController(t, body, DefaultTuning())

	c.Takeoff()

	assert.Zero(t, timers.scheduled)
	require.Len(t, body.impulses, 1)
	assertVecNear(t, mgl64.Vec3{0, DefaultTuning().LungeStrength, 0}, body.impulses[0].v, 1e-6)
}

func TestSetGuidePathRefusedMidTakeoff(t *testing.T) {
	body := &fakeBody{mode: common.MovementWalking}
	c, timers := newTestController(t, body, DefaultTuning(), WithGuidePath(linePath{length: 200}))

	c.Takeoff()
	assert.ErrorIs(t, c.SetGuidePath(linePath{length: 50}), ErrTakeoffActive)
	assert.Equal(t, linePath{length: 200}, c.GuidePath())

	timers.Advance(DefaultTuning().TakeoffDuration)
	require.NoError(t, c.SetGuidePath(nil))
	assert.False(t, c.HasGuidePath())

	c.Takeoff()
	assert.Equal(t, 1, timers.scheduled)
	assert.Len(t, body.impulses, 2)
}

func TestCancelTakeoff(t *testing.T) {
	body := &fakeBody{mode: common.MovementWalking}
	c, timers := newTestController(t, body, DefaultTuning(), WithGuidePath(linePath{length: 200}))

	assert.False(t, c.CancelTakeoff())
	c.Takeoff()
	assert.True(t, c.CancelTakeoff())
	assert.False(t, c.TakeoffState().Active())
	assert.Zero(t, timers.Len())

	timers.Advance(DefaultTuning().TakeoffDuration)
	assert.Empty(t, body.impulses)
}

func TestBackstepPushesAwayFromFacing(t *testing.T) {
	body := &fakeBody{rotation: common.Rotator{Yaw: 0}}
	c, _ := newTestController(t, body, DefaultTuning())

	c.Backstep()

	require.Len(t, body.impulses, 1)
	assertVecNear(t, mgl64.Vec3{-DefaultTuning().BackstepStrength, 0, 0}, body.impulses[0].v, 1e-6)
	assert.False(t, body.impulses[0].velocityChange)
}

func TestMoveInputDirections(t *testing.T) {
	body := &fakeBody{}
	c, _ := newTestController(t, body, DefaultTuning())
	c.AddYawInput(90)
	c.AddPitchInput(30)

	c.MoveForward(0.5)
	c.MoveRight(-1)
	c.MoveForward(0)

	require.Len(t, body.inputs, 2)

	fwd := body.inputs[0]
	assert.Equal(t, 0.5, fwd.scale)
	assertVecNear(t, common.Rotator{Pitch: 30, Yaw: 90}.Vector(), fwd.dir, 1e-12)

	right := body.inputs[1]
	assert.Equal(t, -1.0, right.scale)
	assertVecNear(t, mgl64.Vec3{-1, 0, 0}, right.dir, 1e-12)
}

func TestControlPitchIsClamped(t *testing.T) {
	c, _ := newTestController(t, &fakeBody{}, DefaultTuning())
	c.AddPitchInput(200)
	assert.Equal(t, maxControlPitch, c.ControlRotation().Pitch)
	c.AddPitchInput(-500)
	assert.Equal(t, -maxControlPitch, c.ControlRotation().Pitch)

	c.AddYawInput(270)
	assert.InDelta(t, -90, c.ControlRotation().Yaw, 1e-9)
}

func TestStartFlyingAndJump(t *testing.T) {
	body := &fakeBody{mode: common.MovementWalking}
	c, _ := newTestController(t, body, DefaultTuning())

	c.Jump()
	assert.Equal(t, 1, body.jumps)

	c.StartFlying()
	assert.Equal(t, common.MovementFlying, body.mode)

	c.Jump()
	assert.Equal(t, 1, body.jumps)
}

func TestLandedLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c, _ := newTestController(t, &fakeBody{}, DefaultTuning(), WithLogger(zap.New(core)))

	c.Landed(common.HitResult{Location: mgl64.Vec3{1, 2, 0}, Normal: common.AxisZ})

	entries := logs.FilterMessage("landed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, 1.0, entries[0].ContextMap()["x"])
}
