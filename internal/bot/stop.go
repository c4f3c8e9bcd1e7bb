package bot

// Stop stops receiving Telegram updates. Start returns once the channel closes.
func (b *Bot) Stop() {
	if b == nil || b.tg == nil {
		return
	}
	b.tg.StopReceivingUpdates()
}
