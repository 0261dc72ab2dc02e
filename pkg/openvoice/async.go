package openvoice

import "context"

// runSync выполняет вызов в текущей горутине
func runSync(fn func() Result) Result {
	return fn()
}

// runAsync выполняет вызов в отдельной горутине и отдает ровно один результат
func runAsync(fn func() Result) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		done <- fn()
	}()
	return done
}

// GenerateAudioAsync - асинхронный вариант GenerateAudio
func (c *Client) GenerateAudioAsync(ctx context.Context, req GenerateAudioRequest) <-chan Result {
	return runAsync(func() Result {
		return c.generateAudio(ctx, req)
	})
}

// ChangeVoiceAsync - асинхронный вариант ChangeVoice
func (c *Client) ChangeVoiceAsync(ctx context.Context, req ChangeVoiceRequest) <-chan Result {
	return runAsync(func() Result {
		return c.changeVoice(ctx, req)
	})
}
