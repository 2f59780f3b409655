// Package audio wraps the OpenAI speech endpoints: transcription of recorded
// audio and synthesis of translated text. Synthesized speech always arrives as
// mp3; wav output is produced locally and falls back to mp3 when conversion
// is not possible.
package audio
