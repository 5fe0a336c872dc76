// Package vm implements the PixelMachine stack language.
//
// A program is plain text evaluated once per output pixel. Each evaluation
// runs on its own Machine, which knows the fragment's position, the canvas
// dimensions and a shared, read-only list of textures.
//
// This package contains:
//   - Tagged stack values (Data) and their Type tags
//   - The comment stripper and tokenizer
//   - The token parser
//   - The operation table and the Machine that executes it
//   - A static checker and a disassembler for program listings
//
// # Syntax
//
// Tokens are separated by whitespace. '#' starts a comment that runs to the
// end of the line. A token is a keyword, a decimal integer (u8 when it fits,
// u32 otherwise) or a boolean literal:
//
//	# sample texture 0 at this pixel
//	fragPos 0 texturePixel
//
// The program must leave a color on top of the stack. Anything below it is
// ignored.
package vm
